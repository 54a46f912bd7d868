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
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/probelang/tealvm/internal/assembler"
	"github.com/probelang/tealvm/internal/teal"
	"github.com/probelang/tealvm/internal/tealcrypto"
	"github.com/probelang/tealvm/internal/tealledger"
	"github.com/probelang/tealvm/internal/tealutil"
)

var modeFlag = cli.StringFlag{
	Name:  "mode",
	Usage: "signature or application",
	Value: "application",
}

var costBudgetFlag = cli.Uint64Flag{
	Name:  "cost-budget",
	Usage: "opcode cost budget (0 uses the engine default)",
}

var argsFlag = cli.StringFlag{
	Name:  "args",
	Usage: "comma-separated hex-encoded program arguments",
}

var traceFlag = cli.BoolFlag{
	Name:  "trace",
	Usage: "print a per-instruction execution trace to stderr",
}

var executeCommand = cli.Command{
	Name:      "execute",
	Usage:     "execute a TEAL source or bytecode program",
	ArgsUsage: "<file.teal|file.bin>",
	Flags:     []cli.Flag{modeFlag, costBudgetFlag, versionFlag, argsFlag, traceFlag},
	Action:    runExecute,
}

func parseMode(s string) (teal.Mode, error) {
	switch s {
	case "signature":
		return teal.ModeSignature, nil
	case "application":
		return teal.ModeApplication, nil
	default:
		return 0, fmt.Errorf("execute: unknown mode %q", s)
	}
}

func loadProgram(path string, version uint8) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".teal") {
		prog, err := assembler.Assemble(string(data))
		if err != nil {
			return nil, err
		}
		return prog.Bytecode, nil
	}
	return data, nil
}

func runExecute(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("execute: expected exactly one program file argument")
	}
	version := uint8(c.Uint(versionFlag.Name))
	program, err := loadProgram(c.Args().Get(0), version)
	if err != nil {
		return err
	}
	mode, err := parseMode(c.String(modeFlag.Name))
	if err != nil {
		return err
	}
	args, err := tealutil.ParseArgList(c.String(argsFlag.Name))
	if err != nil {
		return err
	}

	vm, err := teal.NewVirtualMachine(version)
	if err != nil {
		return err
	}
	ledger := tealledger.New(tealledger.Snapshot{Args: args, Group: []tealledger.Transaction{{}}})
	result, err := vm.Execute(program, teal.Config{
		Mode:       mode,
		Version:    version,
		CostBudget: c.Uint64(costBudgetFlag.Name),
		GroupSize:  1,
		Trace:      c.Bool(traceFlag.Name),
	}, ledger, tealcrypto.Default{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "execution error: %v\n", err)
		os.Exit(2)
	}

	if c.Bool(traceFlag.Name) {
		for _, step := range result.Trace {
			fmt.Fprintf(os.Stderr, "pc=%-5d %-20s cost=%-6d depth=%d\n", step.PC, step.Name, step.Cost, step.Depth)
		}
	}
	for _, l := range result.Logs {
		fmt.Fprintf(os.Stderr, "log: %s\n", tealutil.ToHex(l))
	}
	fmt.Fprintf(os.Stderr, "cost: %d\n", result.Cost)

	if result.Approved {
		fmt.Println("APPROVE")
		os.Exit(0)
	}
	fmt.Println("DENY")
	os.Exit(1)
	return nil
}
