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
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/probelang/tealvm/internal/teal"
)

var validateCommand = cli.Command{
	Name:      "validate",
	Usage:     "check that the opcodes of a program are known and available at its version, without executing it; checking stops at the first variable-length opcode",
	ArgsUsage: "<file.teal|file.bin>",
	Flags:     []cli.Flag{versionFlag},
	Action:    runValidate,
}

func runValidate(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("validate: expected exactly one program file argument")
	}
	version := uint8(c.Uint(versionFlag.Name))
	program, err := loadProgram(c.Args().Get(0), version)
	if err != nil {
		return err
	}
	table, err := teal.BuildOpTable(version)
	if err != nil {
		return err
	}

	pc := 0
	for pc < len(program) {
		spec := table.Lookup(program[pc])
		if spec == nil {
			return &teal.InvalidOpcodeError{Opcode: program[pc], PC: pc}
		}
		if spec.MinVersion > version {
			return &teal.OpcodeNotAvailableError{Op: spec.Name, Version: version}
		}
		size := spec.Size
		if size < 0 {
			// Variable-length opcodes (intcblock, bytecblock, pushbytes,
			// pushints, pushbytess, switch, match) can't be skipped without
			// full decoding. validate reports the mnemonic and stops here:
			// the rest of the program is not checked and "OK" is not
			// printed.
			fmt.Printf("pc=%-5d %-20s (variable length, version>=%d)\n", pc, spec.Name, spec.MinVersion)
			return nil
		}
		fmt.Printf("pc=%-5d %-20s modes=%x version>=%d cost=%d\n", pc, spec.Name, spec.Modes, spec.MinVersion, spec.Cost)
		pc += size
	}
	fmt.Println("OK")
	os.Exit(0)
	return nil
}
