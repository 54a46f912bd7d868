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

// Config bundles the per-call execution parameters a collaborator supplies
// to Execute: which mode the program is validated under, the version it
// declares, the cost budget it must stay within, and its position in the
// enclosing transaction group.
type Config struct {
	Mode       Mode
	Version    uint8
	CostBudget uint64
	GroupIndex uint32
	GroupSize  uint32
	// Trace enables per-instruction recording into ExecutionResult.Trace.
	// Left false, Execute carries no tracing overhead.
	Trace bool
}

// DefaultCostBudget is the opcode-cost ceiling applied when a Config leaves
// CostBudget at zero.
const DefaultCostBudget = 20000

// VirtualMachine holds one version's dense opcode table. It is immutable
// after construction and safe to share across goroutines; all mutable state
// for a single run lives in the EvalContext that Execute builds internally.
type VirtualMachine struct {
	table *OpTable
}

// NewVirtualMachine builds the dispatch table for version.
func NewVirtualMachine(version uint8) (*VirtualMachine, error) {
	t, err := BuildOpTable(version)
	if err != nil {
		return nil, err
	}
	return &VirtualMachine{table: t}, nil
}

// ExecutionResult reports the outcome of one Execute call: whether the
// program approved, any logged entries, the total cost charged, and the
// per-step trace when Config.Trace is set.
type ExecutionResult struct {
	Approved bool
	Logs     [][]byte
	Cost     uint64
	Trace    []TraceStep
}

// Execute runs program to completion (or failure) against cfg and ledger,
// the fetch-decode-execute loop at the heart of the engine. It never
// mutates program and never retains ledger or crypto past return.
func (vm *VirtualMachine) Execute(program []byte, cfg Config, ledger LedgerView, crypto CryptoProvider) (ExecutionResult, error) {
	if cfg.Version != vm.table.Version() {
		return ExecutionResult{}, &UnsupportedVersionError{Version: cfg.Version}
	}
	budget := cfg.CostBudget
	if budget == 0 {
		budget = DefaultCostBudget
	}
	ctx := NewEvalContext(program, cfg.Mode, cfg.Version, budget, ledger, crypto)
	ctx.GroupIndex = cfg.GroupIndex
	ctx.GroupSize = cfg.GroupSize
	ctx.TraceEnabled = cfg.Trace

	for ctx.PC < len(program) {
		opcode := program[ctx.PC]
		spec := vm.table.Lookup(opcode)
		if spec == nil {
			return ExecutionResult{}, &InvalidOpcodeError{Opcode: opcode, PC: ctx.PC}
		}
		if spec.MinVersion > cfg.Version {
			return ExecutionResult{}, &OpcodeNotAvailableError{Op: spec.Name, Version: cfg.Version}
		}
		if spec.Modes&ctx.Mode == 0 {
			return ExecutionResult{}, &InvalidProgramError{Detail: "opcode " + spec.Name + " is not valid in this execution mode"}
		}
		if err := ctx.ChargeCost(spec.Cost); err != nil {
			return ExecutionResult{}, err
		}
		ctx.recordTrace(spec)
		startPC := ctx.PC
		if err := spec.Handler(ctx); err != nil {
			return ExecutionResult{}, err
		}
		if ctx.Halted {
			return ExecutionResult{Approved: ctx.HaltedOK, Logs: ctx.Logs(), Cost: ctx.Cost, Trace: ctx.Trace}, nil
		}
		if ctx.PC == startPC {
			// A handler that neither branched nor errored must have
			// advanced the PC past its own encoding; a handler that left
			// it untouched is a bug in that handler, not a valid loop.
			return ExecutionResult{}, &InvalidProgramError{Detail: "handler for " + spec.Name + " did not advance PC"}
		}
	}

	if ctx.StackDepth() != 1 {
		return ExecutionResult{}, &InvalidProgramError{Detail: "program ended without exactly one value on the stack"}
	}
	top, err := ctx.Peek()
	if err != nil {
		return ExecutionResult{}, err
	}
	return ExecutionResult{Approved: top.Bool(), Logs: ctx.Logs(), Cost: ctx.Cost, Trace: ctx.Trace}, nil
}

// Version reports the version this VirtualMachine's table was built for.
func (vm *VirtualMachine) Version() uint8 { return vm.table.Version() }
