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

package teal

import (
	"encoding/binary"
	"testing"
)

// opcodeOf looks up an opcode byte by mnemonic directly against the master
// registry, bypassing the assembler package so internal/teal's tests don't
// import internal/assembler.
func opcodeOf(t *testing.T, name string) byte {
	t.Helper()
	spec, ok := ByName(name)
	if !ok {
		t.Fatalf("no such opcode: %s", name)
	}
	return spec.Opcode
}

// encodePushInt appends a pushint instruction encoding v as the fixed
// 8-byte big-endian immediate opPushInt expects.
func encodePushInt(t *testing.T, prog []byte, v uint64) []byte {
	t.Helper()
	prog = append(prog, opcodeOf(t, "pushint"))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(prog, buf[:]...)
}

func pushintProgram(t *testing.T, ops ...interface{}) []byte {
	t.Helper()
	var prog []byte
	for _, op := range ops {
		switch v := op.(type) {
		case uint64:
			prog = encodePushInt(t, prog, v)
		case string:
			prog = append(prog, opcodeOf(t, v))
		default:
			t.Fatalf("unsupported operand %v", op)
		}
	}
	return prog
}

func mustExecute(t *testing.T, program []byte) ExecutionResult {
	t.Helper()
	vm, err := NewVirtualMachine(MaxVersion)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	result, err := vm.Execute(program, Config{
		Mode:       ModeSignature,
		Version:    MaxVersion,
		CostBudget: DefaultCostBudget,
		GroupSize:  1,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return result
}

// Scenario 1: (10 + 20) * 3 == 90
func TestScenarioArithmeticApproves(t *testing.T) {
	prog := pushintProgram(t,
		uint64(10), uint64(20), "+",
		uint64(3), "*",
		uint64(90), "==",
		"return",
	)
	result := mustExecute(t, prog)
	if !result.Approved {
		t.Fatalf("expected approval")
	}
}

// Scenario 2: 100/7 == 14 && 100%7 == 2
func TestScenarioDivModApproves(t *testing.T) {
	prog := pushintProgram(t,
		uint64(100), uint64(7), "/",
		uint64(14), "==",
		uint64(100), uint64(7), "%",
		uint64(2), "==",
		"&&",
		"return",
	)
	result := mustExecute(t, prog)
	if !result.Approved {
		t.Fatalf("expected approval")
	}
}

// Scenario 3: division by zero fails execution.
func TestScenarioDivisionByZeroFails(t *testing.T) {
	prog := pushintProgram(t, uint64(5), uint64(0), "/", "return")
	vm, err := NewVirtualMachine(MaxVersion)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	_, err = vm.Execute(prog, Config{Mode: ModeSignature, Version: MaxVersion, CostBudget: DefaultCostBudget, GroupSize: 1}, nil, nil)
	if err == nil {
		t.Fatalf("expected a division-by-zero error")
	}
}

// Scenario 4: len("hello") == 5
func TestScenarioLenApproves(t *testing.T) {
	var prog []byte
	prog = append(prog, opcodeOf(t, "pushbytes"), 5)
	prog = append(prog, "hello"...)
	prog = append(prog, opcodeOf(t, "len"))
	prog = encodePushInt(t, prog, 5)
	prog = append(prog, opcodeOf(t, "=="))
	prog = append(prog, opcodeOf(t, "return"))
	result := mustExecute(t, prog)
	if !result.Approved {
		t.Fatalf("expected approval")
	}
}

// Scenario 5: bnz taken over an err opcode.
func TestScenarioBranchSkipsErr(t *testing.T) {
	pushint1 := encodePushInt(t, []byte{}, 1)
	bnz := []byte{opcodeOf(t, "bnz"), 0, 0} // displacement patched below
	errOp := []byte{opcodeOf(t, "err")}
	pushint1b := encodePushInt(t, []byte{}, 1)
	retOp := []byte{opcodeOf(t, "return")}

	// Lay the program out manually and patch the branch displacement by
	// hand, since this test avoids depending on internal/assembler.
	prog := append([]byte{}, pushint1...)
	bnzPos := len(prog)
	prog = append(prog, bnz...)
	afterBnz := len(prog)
	prog = append(prog, errOp...)
	okPos := len(prog)
	prog = append(prog, pushint1b...)
	prog = append(prog, retOp...)

	offset := okPos - afterBnz
	prog[bnzPos+1] = byte(int16(offset) >> 8)
	prog[bnzPos+2] = byte(int16(offset))

	result := mustExecute(t, prog)
	if !result.Approved {
		t.Fatalf("expected approval (branch should have skipped err)")
	}
}

// Scenario 6 (iterative factorial via callsub, labels, and a backward
// branch) is exercised in internal/assembler, where the two-pass assembler's
// label support makes the control flow legible; see
// TestScenarioFactorialViaCallsub there.

func TestDupIdentity(t *testing.T) {
	prog := pushintProgram(t, uint64(7), "dup", "pop", "return")
	result := mustExecute(t, prog)
	// pushint 7; dup; pop leaves exactly [7], a truthy final value.
	if !result.Approved {
		t.Fatalf("expected approval")
	}
}

func TestDup2Order(t *testing.T) {
	spec, ok := ByName("dup2")
	if !ok {
		t.Fatalf("dup2 not registered")
	}
	ctx := NewEvalContext([]byte{spec.Opcode}, modeBoth, MaxVersion, DefaultCostBudget, nil, nil)
	ctx.Push(Uint64Value(11)) // A
	ctx.Push(Uint64Value(22)) // B
	if err := spec.Handler(ctx); err != nil {
		t.Fatalf("dup2 handler: %v", err)
	}
	if ctx.StackDepth() != 4 {
		t.Fatalf("StackDepth() = %d, want 4", ctx.StackDepth())
	}
	want := []uint64{11, 22, 11, 22}
	for i, w := range want {
		v, err := ctx.PeekAt(len(want) - 1 - i)
		if err != nil {
			t.Fatalf("PeekAt(%d): %v", i, err)
		}
		if n, _ := v.AsUint64(); n != w {
			t.Fatalf("stack[%d] = %d, want %d (dup2 of [A,B] must yield [A,B,A,B])", i, n, w)
		}
	}
}

func TestVersionGatingRejectsNewerOpcode(t *testing.T) {
	spec, ok := ByName("acct_params_get")
	if !ok {
		t.Fatalf("acct_params_get not registered")
	}
	if spec.MinVersion < 2 {
		t.Skip("acct_params_get has no meaningful min version to gate on")
	}
	vm, err := NewVirtualMachine(spec.MinVersion - 1)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	table, err := BuildOpTable(spec.MinVersion - 1)
	if err != nil {
		t.Fatalf("BuildOpTable: %v", err)
	}
	if table.Lookup(spec.Opcode) == nil {
		t.Fatalf("opcode %s should stay reachable in the table below its MinVersion; only dispatch gates it", spec.Name)
	}
	prog := []byte{spec.Opcode}
	_, err = vm.Execute(prog, Config{Mode: ModeApplication, Version: spec.MinVersion - 1, CostBudget: DefaultCostBudget, GroupSize: 1}, nil, nil)
	if err == nil {
		t.Fatalf("expected OpcodeNotAvailableError for an opcode below its MinVersion")
	}
	if _, ok := err.(*OpcodeNotAvailableError); !ok {
		t.Fatalf("got %T, want *OpcodeNotAvailableError", err)
	}
}

func TestExecuteRejectsMismatchedVersion(t *testing.T) {
	vm, err := NewVirtualMachine(5)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	_, err = vm.Execute(nil, Config{Mode: ModeSignature, Version: 6, CostBudget: DefaultCostBudget, GroupSize: 1}, nil, nil)
	if err == nil {
		t.Fatalf("expected an error when Config.Version does not match the VM's table version")
	}
}

func TestFinalStateRequiresExactlyOneStackValue(t *testing.T) {
	prog := pushintProgram(t, uint64(1), uint64(2))
	vm, err := NewVirtualMachine(MaxVersion)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	_, err = vm.Execute(prog, Config{Mode: ModeSignature, Version: MaxVersion, CostBudget: DefaultCostBudget, GroupSize: 1}, nil, nil)
	if err == nil {
		t.Fatalf("expected an error: program left two values on the stack")
	}
}

func TestCostBudgetExceeded(t *testing.T) {
	prog := pushintProgram(t, uint64(1), uint64(2), "+", "return")
	vm, err := NewVirtualMachine(MaxVersion)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	_, err = vm.Execute(prog, Config{Mode: ModeSignature, Version: MaxVersion, CostBudget: 1, GroupSize: 1}, nil, nil)
	if err == nil {
		t.Fatalf("expected a cost-budget error for a tiny budget")
	}
}

func TestTraceRecordsOneStepPerInstruction(t *testing.T) {
	prog := pushintProgram(t, uint64(1), "return")
	vm, err := NewVirtualMachine(MaxVersion)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	result, err := vm.Execute(prog, Config{Mode: ModeSignature, Version: MaxVersion, CostBudget: DefaultCostBudget, GroupSize: 1, Trace: true}, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Trace) != 2 {
		t.Fatalf("Trace has %d steps, want 2 (pushint, return)", len(result.Trace))
	}
	if result.Trace[0].Name != "pushint" || result.Trace[1].Name != "return" {
		t.Fatalf("unexpected trace step names: %+v", result.Trace)
	}
}

func TestTraceDisabledByDefault(t *testing.T) {
	prog := pushintProgram(t, uint64(1), "return")
	result := mustExecute(t, prog)
	if result.Trace != nil {
		t.Fatalf("Trace should be nil when Config.Trace is false")
	}
}
