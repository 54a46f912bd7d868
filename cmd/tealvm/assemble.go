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

var outputFlag = cli.StringFlag{
	Name:  "o",
	Usage: "output file (defaults to stdout)",
}

var assembleCommand = cli.Command{
	Name:      "assemble",
	Usage:     "assemble TEAL source into bytecode",
	ArgsUsage: "<file.teal>",
	Flags:     []cli.Flag{outputFlag},
	Action:    runAssemble,
}

func runAssemble(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("assemble: expected exactly one source file argument")
	}
	src, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	prog, err := assembler.Assemble(string(src))
	if err != nil {
		return err
	}
	return writeOutput(c, prog.Bytecode)
}

func writeOutput(c *cli.Context, data []byte) error {
	if out := c.String(outputFlag.Name); out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err := os.Stdout.Write(data)
	return err
}
