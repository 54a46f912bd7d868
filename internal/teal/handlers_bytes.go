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

import "github.com/holiman/uint256"

func init() {
	register(OpSpec{Opcode: 0x50, Name: "concat", Cost: 1, Size: 1, MinVersion: 2, Modes: modeBoth, Handler: opConcat})
	register(OpSpec{Opcode: 0x51, Name: "substring", Size: 3, MinVersion: 2, Modes: modeBoth, Handler: opSubstringImm})
	register(OpSpec{Opcode: 0x52, Name: "substring3", Cost: 1, Size: 1, MinVersion: 2, Modes: modeBoth, Handler: opSubstring3})
	register(OpSpec{Opcode: 0x53, Name: "getbit", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: opGetBit})
	register(OpSpec{Opcode: 0x54, Name: "setbit", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: opSetBit})
	register(OpSpec{Opcode: 0x55, Name: "getbyte", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: opGetByte})
	register(OpSpec{Opcode: 0x56, Name: "setbyte", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: opSetByte})
	register(OpSpec{Opcode: 0x57, Name: "extract", Size: 3, MinVersion: 5, Modes: modeBoth, Handler: opExtractImm})
	register(OpSpec{Opcode: 0x58, Name: "extract3", Cost: 1, Size: 1, MinVersion: 5, Modes: modeBoth, Handler: opExtract3})
	register(OpSpec{Opcode: 0x59, Name: "extract_uint16", Cost: 1, Size: 1, MinVersion: 5, Modes: modeBoth, Handler: opExtractUint(2)})
	register(OpSpec{Opcode: 0x5a, Name: "extract_uint32", Cost: 1, Size: 1, MinVersion: 5, Modes: modeBoth, Handler: opExtractUint(4)})
	register(OpSpec{Opcode: 0x5b, Name: "extract_uint64", Cost: 1, Size: 1, MinVersion: 5, Modes: modeBoth, Handler: opExtractUint(8)})
	register(OpSpec{Opcode: 0x5c, Name: "bzero", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: opBzero})
	register(OpSpec{Opcode: 0x5d, Name: "b+", Cost: 10, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteAddOp})
	register(OpSpec{Opcode: 0x5e, Name: "b-", Cost: 10, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteSubOp})
	register(OpSpec{Opcode: 0x5f, Name: "b/", Cost: 20, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteDivOp})
	register(OpSpec{Opcode: 0x60, Name: "b*", Cost: 20, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteMulOp})
	register(OpSpec{Opcode: 0x61, Name: "b<", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteCompareOp(func(c int) bool { return c < 0 })})
	register(OpSpec{Opcode: 0x62, Name: "b>", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteCompareOp(func(c int) bool { return c > 0 })})
	register(OpSpec{Opcode: 0x63, Name: "b<=", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteCompareOp(func(c int) bool { return c <= 0 })})
	register(OpSpec{Opcode: 0x64, Name: "b>=", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteCompareOp(func(c int) bool { return c >= 0 })})
	register(OpSpec{Opcode: 0x65, Name: "b==", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteCompareOp(func(c int) bool { return c == 0 })})
	register(OpSpec{Opcode: 0x66, Name: "b!=", Cost: 1, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteCompareOp(func(c int) bool { return c != 0 })})
	register(OpSpec{Opcode: 0x67, Name: "b%", Cost: 20, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteModOp})
	register(OpSpec{Opcode: 0x68, Name: "b|", Cost: 6, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteBitwiseOp(func(a, b byte) byte { return a | b })})
	register(OpSpec{Opcode: 0x69, Name: "b&", Cost: 6, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteBitwiseOp(func(a, b byte) byte { return a & b })})
	register(OpSpec{Opcode: 0x6a, Name: "b^", Cost: 6, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: byteBitwiseOp(func(a, b byte) byte { return a ^ b })})
	register(OpSpec{Opcode: 0x6b, Name: "b~", Cost: 4, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: opByteNot})
}

func opConcat(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	a, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	b, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	if len(a)+len(b) > MaxByteValueLength {
		return &InvalidByteArrayLengthError{Detail: "concat result exceeds maximum byte length"}
	}
	out := make([]byte, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func sliceBytes(b []byte, start, length int) ([]byte, error) {
	if start < 0 || length < 0 || start+length > len(b) {
		return nil, &InvalidByteArrayLengthError{Detail: "slice range out of bounds"}
	}
	out := make([]byte, length)
	copy(out, b[start:start+length])
	return out, nil
}

func opSubstringImm(ctx *EvalContext) error {
	start := int(ctx.Program[ctx.PC+1])
	end := int(ctx.Program[ctx.PC+2])
	if end < start {
		return &InvalidByteArrayLengthError{Detail: "substring end before start"}
	}
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	out, err := sliceBytes(b, start, end-start)
	if err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opSubstring3(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	b, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	start, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	end, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	if end < start {
		return &InvalidByteArrayLengthError{Detail: "substring3 end before start"}
	}
	out, err := sliceBytes(b, int(start), int(end-start))
	if err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opExtractImm(ctx *EvalContext) error {
	start := int(ctx.Program[ctx.PC+1])
	length := int(ctx.Program[ctx.PC+2])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	if length == 0 {
		length = len(b) - start
	}
	out, err := sliceBytes(b, start, length)
	if err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opExtract3(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	b, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	start, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	length, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	out, err := sliceBytes(b, int(start), int(length))
	if err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opExtractUint(width int) Handler {
	return func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		b, err := vals[0].AsBytes()
		if err != nil {
			return err
		}
		start, err := vals[1].AsUint64()
		if err != nil {
			return err
		}
		out, err := sliceBytes(b, int(start), width)
		if err != nil {
			return err
		}
		var n uint64
		for _, c := range out {
			n = n<<8 | uint64(c)
		}
		if err := ctx.Push(Uint64Value(n)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func opGetBit(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	idx, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	if vals[0].IsUint64() {
		n := vals[0].Uint()
		if idx >= 64 {
			return &InvalidByteArrayLengthError{Detail: "getbit index out of range for uint64"}
		}
		bit := (n >> (63 - idx)) & 1
		if err := ctx.Push(Uint64Value(bit)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
	b := vals[0].RawBytes()
	byteIdx := int(idx / 8)
	if byteIdx < 0 || byteIdx >= len(b) {
		return &InvalidByteArrayLengthError{Detail: "getbit index out of range"}
	}
	bitIdx := uint(7 - idx%8)
	bit := (b[byteIdx] >> bitIdx) & 1
	if err := ctx.Push(Uint64Value(uint64(bit))); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opSetBit(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	idx, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	bitVal, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	if bitVal > 1 {
		return &InvalidProgramError{Detail: "setbit value must be 0 or 1"}
	}
	if vals[0].IsUint64() {
		if idx >= 64 {
			return &InvalidByteArrayLengthError{Detail: "setbit index out of range for uint64"}
		}
		n := vals[0].Uint()
		shift := 63 - idx
		if bitVal == 1 {
			n |= 1 << shift
		} else {
			n &^= 1 << shift
		}
		if err := ctx.Push(Uint64Value(n)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
	src := vals[0].RawBytes()
	out := make([]byte, len(src))
	copy(out, src)
	byteIdx := int(idx / 8)
	if byteIdx < 0 || byteIdx >= len(out) {
		return &InvalidByteArrayLengthError{Detail: "setbit index out of range"}
	}
	bitIdx := uint(7 - idx%8)
	if bitVal == 1 {
		out[byteIdx] |= 1 << bitIdx
	} else {
		out[byteIdx] &^= 1 << bitIdx
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opGetByte(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	b, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	idx, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	if int(idx) >= len(b) {
		return &InvalidByteArrayLengthError{Detail: "getbyte index out of range"}
	}
	if err := ctx.Push(Uint64Value(uint64(b[idx]))); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opSetByte(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	b, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	idx, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	small, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	if int(idx) >= len(b) {
		return &InvalidByteArrayLengthError{Detail: "setbyte index out of range"}
	}
	if small > 255 {
		return &InvalidProgramError{Detail: "setbyte value must fit in one byte"}
	}
	out := make([]byte, len(b))
	copy(out, b)
	out[idx] = byte(small)
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBzero(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	n, err := v.AsUint64()
	if err != nil {
		return err
	}
	if n > MaxByteValueLength {
		return &InvalidByteArrayLengthError{Detail: "bzero length exceeds maximum byte length"}
	}
	if err := ctx.Push(BytesValue(make([]byte, n))); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func popByteMathOperands(ctx *EvalContext) (*uint256.Int, *uint256.Int, error) {
	vals, err := ctx.PopN(2)
	if err != nil {
		return nil, nil, err
	}
	a, err := vals[0].AsBytes()
	if err != nil {
		return nil, nil, err
	}
	b, err := vals[1].AsBytes()
	if err != nil {
		return nil, nil, err
	}
	// uint256.Int holds 256 bits; byte-math operands wider than that are
	// rejected rather than silently truncated.
	if len(a) > 32 || len(b) > 32 {
		return nil, nil, &InvalidByteArrayLengthError{Detail: "byte-math operand exceeds 32 bytes"}
	}
	return new(uint256.Int).SetBytes(a), new(uint256.Int).SetBytes(b), nil
}

func pushByteMathResult(ctx *EvalContext, r *uint256.Int) error {
	b := r.Bytes() // big-endian, no leading zero padding
	if err := ctx.Push(BytesValue(b)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func byteAddOp(ctx *EvalContext) error {
	a, b, err := popByteMathOperands(ctx)
	if err != nil {
		return err
	}
	r := new(uint256.Int)
	if r.AddOverflow(a, b) {
		return ErrIntegerOverflow
	}
	return pushByteMathResult(ctx, r)
}

func byteMulOp(ctx *EvalContext) error {
	a, b, err := popByteMathOperands(ctx)
	if err != nil {
		return err
	}
	r := new(uint256.Int)
	if r.MulOverflow(a, b) {
		return ErrIntegerOverflow
	}
	return pushByteMathResult(ctx, r)
}

func byteSubOp(ctx *EvalContext) error {
	a, b, err := popByteMathOperands(ctx)
	if err != nil {
		return err
	}
	if b.Cmp(a) > 0 {
		return ErrIntegerUnderflow
	}
	return pushByteMathResult(ctx, new(uint256.Int).Sub(a, b))
}

func byteDivOp(ctx *EvalContext) error {
	a, b, err := popByteMathOperands(ctx)
	if err != nil {
		return err
	}
	if b.IsZero() {
		return ErrDivisionByZero
	}
	return pushByteMathResult(ctx, new(uint256.Int).Div(a, b))
}

func byteModOp(ctx *EvalContext) error {
	a, b, err := popByteMathOperands(ctx)
	if err != nil {
		return err
	}
	if b.IsZero() {
		return ErrDivisionByZero
	}
	return pushByteMathResult(ctx, new(uint256.Int).Mod(a, b))
}

func byteCompareOp(fn func(cmp int) bool) Handler {
	return func(ctx *EvalContext) error {
		a, b, err := popByteMathOperands(ctx)
		if err != nil {
			return err
		}
		r := uint64(0)
		if fn(a.Cmp(b)) {
			r = 1
		}
		if err := ctx.Push(Uint64Value(r)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func byteBitwiseOp(fn func(a, b byte) byte) Handler {
	return func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		a, err := vals[0].AsBytes()
		if err != nil {
			return err
		}
		b, err := vals[1].AsBytes()
		if err != nil {
			return err
		}
		// Shorter operand is conceptually zero-padded on the left to match
		// the longer one, the same convention b+/b- use via uint256.
		width := len(a)
		if len(b) > width {
			width = len(b)
		}
		out := make([]byte, width)
		for i := 0; i < width; i++ {
			var av, bv byte
			if ai := i - (width - len(a)); ai >= 0 {
				av = a[ai]
			}
			if bi := i - (width - len(b)); bi >= 0 {
				bv = b[bi]
			}
			out[i] = fn(av, bv)
		}
		if err := ctx.Push(BytesValue(out)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func opByteNot(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = ^c
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}
