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

func init() {
	register(OpSpec{Opcode: 0x00, Name: "err", Cost: 1, Size: 1, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		return &ExecutionHaltedError{Reason: "err opcode executed"}
	}})
	register(OpSpec{Opcode: 0x40, Name: "bnz", Cost: 1, Size: 3, Modes: modeBoth, Handler: branchIf(true)})
	register(OpSpec{Opcode: 0x41, Name: "bz", Cost: 1, Size: 3, MinVersion: 2, Modes: modeBoth, Handler: branchIf(false)})
	register(OpSpec{Opcode: 0x42, Name: "b", Cost: 1, Size: 3, MinVersion: 2, Modes: modeBoth, Handler: opBranch})
	register(OpSpec{Opcode: 0x43, Name: "return", Cost: 1, Size: 1, MinVersion: 2, Modes: modeBoth, Handler: opReturn})
	register(OpSpec{Opcode: 0x44, Name: "assert", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: opAssert})
	register(OpSpec{Opcode: 0x88, Name: "callsub", Cost: 1, Size: 3, MinVersion: 4, Modes: modeBoth, Handler: opCallSub})
	register(OpSpec{Opcode: 0x89, Name: "retsub", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: opRetSub})
	register(OpSpec{Opcode: 0x8a, Name: "proto", Size: 3, MinVersion: 8, Modes: modeBoth, Handler: opProto})
	register(OpSpec{Opcode: 0x8b, Name: "frame_dig", Size: 2, MinVersion: 8, Modes: modeBoth, Handler: opFrameDig})
	register(OpSpec{Opcode: 0x8c, Name: "frame_bury", Size: 2, MinVersion: 8, Modes: modeBoth, Handler: opFrameBury})
	register(OpSpec{Opcode: 0x8d, Name: "switch", Size: -1, MinVersion: 8, Modes: modeBoth, Handler: opSwitch})
	register(OpSpec{Opcode: 0x8e, Name: "match", Size: -1, MinVersion: 8, Modes: modeBoth, Handler: opMatch})
}

func branchTarget(ctx *EvalContext) (int, error) {
	offset := int16(uint16(ctx.Program[ctx.PC+1])<<8 | uint16(ctx.Program[ctx.PC+2]))
	target := ctx.PC + 3 + int(offset)
	if target < 0 || target > len(ctx.Program) {
		return 0, &InvalidBranchTargetError{Target: target, Len: len(ctx.Program)}
	}
	return target, nil
}

func branchIf(wantTrue bool) Handler {
	return func(ctx *EvalContext) error {
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		cond, err := v.AsBool()
		if err != nil {
			return err
		}
		target, err := branchTarget(ctx)
		if err != nil {
			return err
		}
		if cond == wantTrue {
			ctx.PC = target
			return nil
		}
		ctx.PC += 3
		return nil
	}
}

func opBranch(ctx *EvalContext) error {
	target, err := branchTarget(ctx)
	if err != nil {
		return err
	}
	ctx.PC = target
	return nil
}

func opReturn(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Halted = true
	ctx.HaltedOK = v.Bool()
	ctx.PC++
	return nil
}

func opAssert(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	if !v.Bool() {
		return &ExecutionHaltedError{Reason: "assert failed"}
	}
	ctx.PC++
	return nil
}

func opCallSub(ctx *EvalContext) error {
	target, err := branchTarget(ctx)
	if err != nil {
		return err
	}
	return ctx.CallSub(ctx.PC+3, target)
}

func opRetSub(ctx *EvalContext) error {
	return ctx.RetSub()
}

func opProto(ctx *EvalContext) error {
	argCount := int(ctx.Program[ctx.PC+1])
	if err := ctx.Proto(argCount); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opFrameDig(ctx *EvalContext) error {
	offset := int(int8(ctx.Program[ctx.PC+1]))
	v, err := ctx.FrameDig(offset)
	if err != nil {
		return err
	}
	if err := ctx.Push(v); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opFrameBury(ctx *EvalContext) error {
	offset := int(int8(ctx.Program[ctx.PC+1]))
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	if err := ctx.FrameBury(offset, v); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

// opSwitch pops a selector and jumps to the selector'th label in its
// immediate target list, falling through past the whole instruction if the
// selector is out of range.
func opSwitch(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	sel, err := v.AsUint64()
	if err != nil {
		return err
	}
	count := int(ctx.Program[ctx.PC+1])
	totalSize := 2 + count*2
	if int(sel) < count {
		pos := ctx.PC + 2 + int(sel)*2
		offset := int16(uint16(ctx.Program[pos])<<8 | uint16(ctx.Program[pos+1]))
		target := ctx.PC + totalSize + int(offset)
		if target < 0 || target > len(ctx.Program) {
			return &InvalidBranchTargetError{Target: target, Len: len(ctx.Program)}
		}
		ctx.PC = target
		return nil
	}
	ctx.PC += totalSize
	return nil
}

// opMatch pops a selector value and n comparison values, jumping to the
// first label whose comparison value equals the selector.
func opMatch(ctx *EvalContext) error {
	count := int(ctx.Program[ctx.PC+1])
	vals, err := ctx.PopN(count + 1)
	if err != nil {
		return err
	}
	selector := vals[count]
	totalSize := 2 + count*2
	for i := 0; i < count; i++ {
		if vals[i].Equal(selector) {
			pos := ctx.PC + 2 + i*2
			offset := int16(uint16(ctx.Program[pos])<<8 | uint16(ctx.Program[pos+1]))
			target := ctx.PC + totalSize + int(offset)
			if target < 0 || target > len(ctx.Program) {
				return &InvalidBranchTargetError{Target: target, Len: len(ctx.Program)}
			}
			ctx.PC = target
			return nil
		}
	}
	ctx.PC += totalSize
	return nil
}
