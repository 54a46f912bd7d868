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

// Command tealvm assembles, disassembles, executes, and validates TEAL-like
// bytecode programs against the internal/teal engine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/urfave/cli.v1"
)

var (
	gitCommit = "unknown"
	appVersion = "0.1.0"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app := cli.NewApp()
	app.Name = "tealvm"
	app.Usage = "assemble, disassemble, execute, and validate TEAL-like bytecode"
	app.Version = fmt.Sprintf("%s-%s", appVersion, gitCommit)
	app.Commands = []cli.Command{
		assembleCommand,
		disassembleCommand,
		executeCommand,
		validateCommand,
		examplesCommand,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("tealvm failed", "err", err)
		os.Exit(2)
	}
}
