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
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/probelang/tealvm/internal/assembler"
)

var versionFlag = cli.UintFlag{
	Name:  "version",
	Usage: "program version",
	Value: uint(assembler.DefaultVersion),
}

var costFlag = cli.BoolFlag{
	Name:  "cost",
	Usage: "annotate each instruction with its static and cumulative cost",
}

var disassembleCommand = cli.Command{
	Name:      "disassemble",
	Usage:     "disassemble bytecode into TEAL source",
	ArgsUsage: "<file.bin>",
	Flags:     []cli.Flag{outputFlag, versionFlag, costFlag},
	Action:    runDisassemble,
}

func runDisassemble(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("disassemble: expected exactly one bytecode file argument")
	}
	data, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	version := uint8(c.Uint(versionFlag.Name))
	var text string
	if c.Bool(costFlag.Name) {
		text, err = assembler.DisassembleAnnotated(version, data)
	} else {
		text, err = assembler.Disassemble(version, data)
	}
	if err != nil {
		return err
	}
	return writeOutput(c, []byte(text))
}
