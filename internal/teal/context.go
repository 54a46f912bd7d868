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

// noFrame marks a frame-pointer slot that proto has not yet initialized.
const noFrame = -1

// EvalContext is the mutable state one Execute call threads through every
// opcode handler: operand stack, scratch space, call/frame stacks, the
// program counter, the running cost total, the constant pools loaded by
// intcblock/bytecblock, and the accumulated log buffer. It is built fresh
// per Execute call and never shared across goroutines.
type EvalContext struct {
	Program []byte
	PC      int

	stack   []Value
	scratch [ScratchSlots]Value

	// callStack holds one return PC per active callsub frame.
	callStack []int
	// framePtrs is paired 1:1 with callStack: framePtrs[i] is the stack
	// index proto recorded as frame base for callStack[i], or noFrame if
	// that subroutine never executed proto.
	framePtrs []int
	// topFramePtr backs frame_dig/frame_bury when proto executes at the
	// outermost scope, before any callsub has pushed a call frame.
	topFramePtr int

	intConsts  []uint64
	byteConsts [][]byte

	Cost       uint64
	CostBudget uint64

	Mode       Mode
	Version    uint8
	GroupIndex uint32
	GroupSize  uint32

	Ledger LedgerView
	Crypto CryptoProvider

	logs [][]byte

	Halted   bool
	HaltedOK bool

	// Trace records one TraceStep per executed instruction when TraceEnabled
	// is set before Execute begins; nil (zero overhead) otherwise.
	TraceEnabled bool
	Trace        []TraceStep
}

// TraceStep is one recorded instruction execution, used by the CLI's
// execute --trace flag and by tests that assert on control flow.
type TraceStep struct {
	PC     int
	Opcode byte
	Name   string
	Cost   uint64
	Depth  int
}

// recordTrace appends a step if tracing is enabled; a no-op otherwise.
func (ctx *EvalContext) recordTrace(spec *OpSpec) {
	if !ctx.TraceEnabled {
		return
	}
	ctx.Trace = append(ctx.Trace, TraceStep{
		PC:     ctx.PC,
		Opcode: spec.Opcode,
		Name:   spec.Name,
		Cost:   ctx.Cost,
		Depth:  len(ctx.stack),
	})
}

// NewEvalContext builds the evaluation state for one Execute call.
func NewEvalContext(program []byte, mode Mode, version uint8, costBudget uint64, ledger LedgerView, crypto CryptoProvider) *EvalContext {
	return &EvalContext{
		Program:     program,
		topFramePtr: noFrame,
		Mode:        mode,
		Version:     version,
		CostBudget:  costBudget,
		Ledger:      ledger,
		Crypto:      crypto,
	}
}

// StackDepth reports the current operand stack size.
func (ctx *EvalContext) StackDepth() int { return len(ctx.stack) }

// Push appends v to the operand stack, failing with a StackOverflowError if
// that would exceed MaxStackDepth.
func (ctx *EvalContext) Push(v Value) error {
	if len(ctx.stack) >= MaxStackDepth {
		return &StackOverflowError{Limit: MaxStackDepth}
	}
	ctx.stack = append(ctx.stack, v)
	return nil
}

// Pop removes and returns the top of the operand stack.
func (ctx *EvalContext) Pop() (Value, error) {
	if len(ctx.stack) == 0 {
		return Value{}, &StackUnderflowError{Required: 1, Have: 0}
	}
	v := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return v, nil
}

// PopN removes and returns the top n stack values in push order (the
// deepest of the n popped values first), the convention every variadic
// handler (concat, app_local_put, ...) relies on.
func (ctx *EvalContext) PopN(n int) ([]Value, error) {
	if len(ctx.stack) < n {
		return nil, &StackUnderflowError{Required: n, Have: len(ctx.stack)}
	}
	start := len(ctx.stack) - n
	out := make([]Value, n)
	copy(out, ctx.stack[start:])
	ctx.stack = ctx.stack[:start]
	return out, nil
}

// Peek returns the top of the operand stack without removing it.
func (ctx *EvalContext) Peek() (Value, error) {
	return ctx.PeekAt(0)
}

// PeekAt returns the value depth positions below the top (0 is the top)
// without removing it.
func (ctx *EvalContext) PeekAt(depth int) (Value, error) {
	idx := len(ctx.stack) - 1 - depth
	if idx < 0 {
		return Value{}, &StackUnderflowError{Required: depth + 1, Have: len(ctx.stack)}
	}
	return ctx.stack[idx], nil
}

// RemoveAt removes and returns the value depth positions below the top,
// shifting shallower values down one slot. Used by uncover.
func (ctx *EvalContext) RemoveAt(depth int) (Value, error) {
	idx := len(ctx.stack) - 1 - depth
	if idx < 0 {
		return Value{}, &StackUnderflowError{Required: depth + 1, Have: len(ctx.stack)}
	}
	v := ctx.stack[idx]
	ctx.stack = append(ctx.stack[:idx], ctx.stack[idx+1:]...)
	return v, nil
}

// InsertAt inserts v so that it ends up depth positions below the new top,
// shifting shallower values up one slot. Used by cover.
func (ctx *EvalContext) InsertAt(depth int, v Value) error {
	if len(ctx.stack) >= MaxStackDepth {
		return &StackOverflowError{Limit: MaxStackDepth}
	}
	idx := len(ctx.stack) - depth
	if idx < 0 || idx > len(ctx.stack) {
		return &StackUnderflowError{Required: depth, Have: len(ctx.stack)}
	}
	ctx.stack = append(ctx.stack, Value{})
	copy(ctx.stack[idx+1:], ctx.stack[idx:])
	ctx.stack[idx] = v
	return nil
}

// ScratchLoad reads scratch slot i.
func (ctx *EvalContext) ScratchLoad(i uint8) Value {
	return ctx.scratch[i]
}

// ScratchStore writes v into scratch slot i.
func (ctx *EvalContext) ScratchStore(i uint8, v Value) {
	ctx.scratch[i] = v
}

// CallDepth reports the number of active subroutine calls.
func (ctx *EvalContext) CallDepth() int { return len(ctx.callStack) }

// CallSub pushes a new call frame returning to returnPC and transfers
// control to target, failing with CallStackOverflowError past MaxCallDepth.
func (ctx *EvalContext) CallSub(returnPC, target int) error {
	if len(ctx.callStack) >= MaxCallDepth {
		return &CallStackOverflowError{Limit: MaxCallDepth}
	}
	ctx.callStack = append(ctx.callStack, returnPC)
	ctx.framePtrs = append(ctx.framePtrs, noFrame)
	ctx.PC = target
	return nil
}

// RetSub pops the innermost call frame and resumes at its return PC.
func (ctx *EvalContext) RetSub() error {
	n := len(ctx.callStack)
	if n == 0 {
		return ErrCallStackUnderflow
	}
	ctx.PC = ctx.callStack[n-1]
	ctx.callStack = ctx.callStack[:n-1]
	ctx.framePtrs = ctx.framePtrs[:n-1]
	return nil
}

// Proto records the current stack depth minus argCount as the frame base
// for the active subroutine (or, outside any callsub, as the outermost
// frame base), for later use by FrameDig/FrameBury.
func (ctx *EvalContext) Proto(argCount int) error {
	base := len(ctx.stack) - argCount
	if base < 0 {
		return &StackUnderflowError{Required: argCount, Have: len(ctx.stack)}
	}
	if n := len(ctx.framePtrs); n > 0 {
		ctx.framePtrs[n-1] = base
	} else {
		ctx.topFramePtr = base
	}
	return nil
}

func (ctx *EvalContext) currentFrame() (int, error) {
	if n := len(ctx.framePtrs); n > 0 {
		if ctx.framePtrs[n-1] == noFrame {
			return 0, &InvalidProgramError{Detail: "frame_dig/frame_bury used before proto in this subroutine"}
		}
		return ctx.framePtrs[n-1], nil
	}
	if ctx.topFramePtr == noFrame {
		return 0, &InvalidProgramError{Detail: "frame_dig/frame_bury used before proto"}
	}
	return ctx.topFramePtr, nil
}

// FrameDig reads the value at offset positions from the active frame's
// base. The base is where proto's first declared argument sits, so offsets
// 0..argCount-1 address the arguments, larger offsets address values pushed
// since proto ran, and negative offsets reach below the arguments.
func (ctx *EvalContext) FrameDig(offset int) (Value, error) {
	base, err := ctx.currentFrame()
	if err != nil {
		return Value{}, err
	}
	idx := base + offset
	if idx < 0 || idx >= len(ctx.stack) {
		return Value{}, &ScratchIndexOutOfBoundsError{Index: idx}
	}
	return ctx.stack[idx], nil
}

// FrameBury writes v at offset positions from the active frame's base.
func (ctx *EvalContext) FrameBury(offset int, v Value) error {
	base, err := ctx.currentFrame()
	if err != nil {
		return err
	}
	idx := base + offset
	if idx < 0 || idx >= len(ctx.stack) {
		return &ScratchIndexOutOfBoundsError{Index: idx}
	}
	ctx.stack[idx] = v
	return nil
}

// IntConst returns the i'th constant loaded by intcblock.
func (ctx *EvalContext) IntConst(i int) (uint64, error) {
	if i < 0 || i >= len(ctx.intConsts) {
		return 0, &InvalidProgramError{Detail: "intc index out of range"}
	}
	return ctx.intConsts[i], nil
}

// ByteConst returns the i'th constant loaded by bytecblock.
func (ctx *EvalContext) ByteConst(i int) ([]byte, error) {
	if i < 0 || i >= len(ctx.byteConsts) {
		return nil, &InvalidProgramError{Detail: "bytec index out of range"}
	}
	return ctx.byteConsts[i], nil
}

// SetIntConsts installs the pool loaded by intcblock, replacing any prior
// pool (a program may re-run intcblock more than once).
func (ctx *EvalContext) SetIntConsts(vals []uint64) { ctx.intConsts = vals }

// SetByteConsts installs the pool loaded by bytecblock.
func (ctx *EvalContext) SetByteConsts(vals [][]byte) { ctx.byteConsts = vals }

// AppendLog records one entry emitted by the `log` opcode.
func (ctx *EvalContext) AppendLog(b []byte) { ctx.logs = append(ctx.logs, b) }

// Logs returns every entry recorded by the `log` opcode, in emission order.
func (ctx *EvalContext) Logs() [][]byte { return ctx.logs }

// ChargeCost adds delta to the running cost total, failing with
// CostBudgetExceededError once it passes CostBudget.
func (ctx *EvalContext) ChargeCost(delta uint64) error {
	ctx.Cost += delta
	if ctx.Cost > ctx.CostBudget {
		return &CostBudgetExceededError{Cost: ctx.Cost, Budget: ctx.CostBudget}
	}
	return nil
}
