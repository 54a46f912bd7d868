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

import "encoding/binary"

func init() {
	register(OpSpec{Opcode: 0x20, Name: "intcblock", Cost: 1, Size: -1, Modes: modeBoth, Handler: opIntcBlock})
	register(OpSpec{Opcode: 0x21, Name: "intc", Cost: 1, Size: 2, Modes: modeBoth, Handler: opIntc})
	register(OpSpec{Opcode: 0x22, Name: "intc_0", Cost: 1, Size: 1, Modes: modeBoth, Handler: intcN(0)})
	register(OpSpec{Opcode: 0x23, Name: "intc_1", Cost: 1, Size: 1, Modes: modeBoth, Handler: intcN(1)})
	register(OpSpec{Opcode: 0x24, Name: "intc_2", Cost: 1, Size: 1, Modes: modeBoth, Handler: intcN(2)})
	register(OpSpec{Opcode: 0x25, Name: "intc_3", Cost: 1, Size: 1, Modes: modeBoth, Handler: intcN(3)})
	register(OpSpec{Opcode: 0x26, Name: "bytecblock", Cost: 1, Size: -1, Modes: modeBoth, Handler: opBytecBlock})
	register(OpSpec{Opcode: 0x27, Name: "bytec", Cost: 1, Size: 2, Modes: modeBoth, Handler: opBytec})
	register(OpSpec{Opcode: 0x28, Name: "bytec_0", Cost: 1, Size: 1, Modes: modeBoth, Handler: bytecN(0)})
	register(OpSpec{Opcode: 0x29, Name: "bytec_1", Cost: 1, Size: 1, Modes: modeBoth, Handler: bytecN(1)})
	register(OpSpec{Opcode: 0x2a, Name: "bytec_2", Cost: 1, Size: 1, Modes: modeBoth, Handler: bytecN(2)})
	register(OpSpec{Opcode: 0x2b, Name: "bytec_3", Cost: 1, Size: 1, Modes: modeBoth, Handler: bytecN(3)})
	register(OpSpec{Opcode: 0x2c, Name: "arg", Cost: 1, Size: 2, Modes: ModeSignature, Handler: opArg})
	register(OpSpec{Opcode: 0x2d, Name: "arg_0", Cost: 1, Size: 1, Modes: ModeSignature, Handler: argN(0)})
	register(OpSpec{Opcode: 0x2e, Name: "arg_1", Cost: 1, Size: 1, Modes: ModeSignature, Handler: argN(1)})
	register(OpSpec{Opcode: 0x2f, Name: "arg_2", Cost: 1, Size: 1, Modes: ModeSignature, Handler: argN(2)})
	register(OpSpec{Opcode: 0x30, Name: "arg_3", Cost: 1, Size: 1, Modes: ModeSignature, Handler: argN(3)})
	register(OpSpec{Opcode: 0x81, Name: "pushbytes", Cost: 1, Size: -1, MinVersion: 3, Modes: modeBoth, Handler: opPushBytes})
	register(OpSpec{Opcode: 0x80, Name: "pushint", Cost: 1, Size: 9, MinVersion: 3, Modes: modeBoth, Handler: opPushInt})
	register(OpSpec{Opcode: 0x82, Name: "pushints", Cost: 1, Size: -1, MinVersion: 8, Modes: modeBoth, Handler: opPushInts})
	register(OpSpec{Opcode: 0x83, Name: "pushbytess", Cost: 1, Size: -1, MinVersion: 8, Modes: modeBoth, Handler: opPushBytess})
}

func opIntcBlock(ctx *EvalContext) error {
	count, n, err := DecodeVaruint(ctx.Program[ctx.PC+1:])
	if err != nil {
		return err
	}
	pos := ctx.PC + 1 + n
	vals := make([]uint64, count)
	for i := range vals {
		v, vn, err := DecodeVaruint(ctx.Program[pos:])
		if err != nil {
			return err
		}
		vals[i] = v
		pos += vn
	}
	ctx.SetIntConsts(vals)
	ctx.PC = pos
	return nil
}

func opBytecBlock(ctx *EvalContext) error {
	count, n, err := DecodeVaruint(ctx.Program[ctx.PC+1:])
	if err != nil {
		return err
	}
	pos := ctx.PC + 1 + n
	vals := make([][]byte, count)
	for i := range vals {
		l, ln, err := DecodeVaruint(ctx.Program[pos:])
		if err != nil {
			return err
		}
		pos += ln
		b := make([]byte, l)
		copy(b, ctx.Program[pos:pos+int(l)])
		vals[i] = b
		pos += int(l)
	}
	ctx.SetByteConsts(vals)
	ctx.PC = pos
	return nil
}

func opIntc(ctx *EvalContext) error {
	idx := int(ctx.Program[ctx.PC+1])
	n, err := ctx.IntConst(idx)
	if err != nil {
		return err
	}
	if err := ctx.Push(Uint64Value(n)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func intcN(idx int) Handler {
	return func(ctx *EvalContext) error {
		n, err := ctx.IntConst(idx)
		if err != nil {
			return err
		}
		if err := ctx.Push(Uint64Value(n)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func opBytec(ctx *EvalContext) error {
	idx := int(ctx.Program[ctx.PC+1])
	b, err := ctx.ByteConst(idx)
	if err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(b)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func bytecN(idx int) Handler {
	return func(ctx *EvalContext) error {
		b, err := ctx.ByteConst(idx)
		if err != nil {
			return err
		}
		if err := ctx.Push(BytesValue(b)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func opArg(ctx *EvalContext) error {
	idx := int(ctx.Program[ctx.PC+1])
	args, err := ctx.Ledger.ProgramArgs()
	if err != nil {
		return &LedgerError{Err: err}
	}
	if idx < 0 || idx >= len(args) {
		return &InvalidProgramError{Detail: "arg index out of range"}
	}
	if err := ctx.Push(BytesValue(args[idx])); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func argN(idx int) Handler {
	return func(ctx *EvalContext) error {
		args, err := ctx.Ledger.ProgramArgs()
		if err != nil {
			return &LedgerError{Err: err}
		}
		if idx >= len(args) {
			return &InvalidProgramError{Detail: "arg index out of range"}
		}
		if err := ctx.Push(BytesValue(args[idx])); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

// opPushInt reads a fixed 8-byte big-endian u64 immediate, unlike the
// varuint-encoded intcblock entries.
func opPushInt(ctx *EvalContext) error {
	if ctx.PC+9 > len(ctx.Program) {
		return &ProgramCounterOutOfBoundsError{PC: ctx.PC + 9, Len: len(ctx.Program)}
	}
	n := binary.BigEndian.Uint64(ctx.Program[ctx.PC+1 : ctx.PC+9])
	if err := ctx.Push(Uint64Value(n)); err != nil {
		return err
	}
	ctx.PC += 9
	return nil
}

// opPushBytes reads a fixed 1-byte length prefix (0-255) followed by that
// many literal bytes, unlike the varuint-length-prefixed bytecblock entries.
func opPushBytes(ctx *EvalContext) error {
	if ctx.PC+1 >= len(ctx.Program) {
		return &ProgramCounterOutOfBoundsError{PC: ctx.PC + 1, Len: len(ctx.Program)}
	}
	l := int(ctx.Program[ctx.PC+1])
	start := ctx.PC + 2
	if start+l > len(ctx.Program) {
		return &ProgramCounterOutOfBoundsError{PC: start + l, Len: len(ctx.Program)}
	}
	b := make([]byte, l)
	copy(b, ctx.Program[start:start+l])
	if err := ctx.Push(BytesValue(b)); err != nil {
		return err
	}
	ctx.PC = start + l
	return nil
}

func opPushInts(ctx *EvalContext) error {
	count, n, err := DecodeVaruint(ctx.Program[ctx.PC+1:])
	if err != nil {
		return err
	}
	pos := ctx.PC + 1 + n
	vals := make([]uint64, count)
	for i := range vals {
		v, vn, err := DecodeVaruint(ctx.Program[pos:])
		if err != nil {
			return err
		}
		vals[i] = v
		pos += vn
	}
	for _, v := range vals {
		if err := ctx.Push(Uint64Value(v)); err != nil {
			return err
		}
	}
	ctx.PC = pos
	return nil
}

func opPushBytess(ctx *EvalContext) error {
	count, n, err := DecodeVaruint(ctx.Program[ctx.PC+1:])
	if err != nil {
		return err
	}
	pos := ctx.PC + 1 + n
	vals := make([][]byte, count)
	for i := range vals {
		l, ln, err := DecodeVaruint(ctx.Program[pos:])
		if err != nil {
			return err
		}
		pos += ln
		b := make([]byte, l)
		copy(b, ctx.Program[pos:pos+int(l)])
		vals[i] = b
		pos += int(l)
	}
	for _, b := range vals {
		if err := ctx.Push(BytesValue(b)); err != nil {
			return err
		}
	}
	ctx.PC = pos
	return nil
}
