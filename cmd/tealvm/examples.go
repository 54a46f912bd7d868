// Copyright 2024 The TealVM Authors
// This file is part of TealVM.
//
// TealVM is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TealVM is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TealVM. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/urfave/cli.v1"
)

type example struct {
	description string
	source      string
}

var builtinExamples = map[string]example{
	"basic_arithmetic": {
		description: "stack arithmetic: (10 + 20) * 3 / 2 == 45",
		source: `#pragma version 6
pushint 10
pushint 20
+
pushint 3
*
pushint 2
/
pushint 45
==
return`,
	},
	"control_flow": {
		description: "branch on comparison result",
		source: `#pragma version 6
pushint 7
pushint 5
>
bnz success
pushint 0
return
success:
pushint 1
return`,
	},
	"crypto_operations": {
		description: "hash a literal and compare against the expected digest",
		source: `#pragma version 6
pushbytes "hello"
sha256
pushbytes 0x2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824
==
return`,
	},
	"transaction_fields": {
		description: "read the sender and amount fields off the current transaction",
		source: `#pragma version 6
txn Sender
global ZeroAddress
!=
txn Amount
pushint 0
>
&&
return`,
	},
	"teal_assembly": {
		description: "subroutine call via callsub/retsub and the frame pointer",
		source: `#pragma version 8
pushint 5
pushint 3
callsub add_numbers
pushint 8
==
return

add_numbers:
proto 2 1
frame_dig 0
frame_dig 1
+
frame_bury 0
pop
retsub`,
	},
	"smart_contract": {
		description: "increment a global counter on every call",
		source: `#pragma version 6
pushbytes "counter"
dup
app_global_get
pushint 1
+
app_global_put
pushint 1
return`,
	},
}

var exampleFlag = cli.StringFlag{
	Name:  "name",
	Usage: "example name (omit to list all examples)",
}

var examplesCommand = cli.Command{
	Name:      "examples",
	Usage:     "list or print built-in example TEAL programs",
	ArgsUsage: "[--name=<example>]",
	Flags:     []cli.Flag{exampleFlag},
	Action:    runExamples,
}

func runExamples(c *cli.Context) error {
	name := c.String(exampleFlag.Name)
	if name == "" {
		names := make([]string, 0, len(builtinExamples))
		for n := range builtinExamples {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("%-20s %s\n", n, builtinExamples[n].description)
		}
		return nil
	}
	ex, ok := builtinExamples[name]
	if !ok {
		return errors.New("examples: unknown example " + name)
	}
	fmt.Println(ex.source)
	return nil
}
