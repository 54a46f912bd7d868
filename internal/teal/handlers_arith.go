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

// binaryUint64Op pops two uint64 operands (b on top, a beneath), applies fn,
// and pushes the uint64 result. Used by every fixed-width arithmetic,
// comparison, and bitwise opcode.
func binaryUint64Op(fn func(a, b uint64) (uint64, error)) Handler {
	return func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		a, err := vals[0].AsUint64()
		if err != nil {
			return err
		}
		b, err := vals[1].AsUint64()
		if err != nil {
			return err
		}
		r, err := fn(a, b)
		if err != nil {
			return err
		}
		if err := ctx.Push(Uint64Value(r)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

// binaryBoolOp is binaryUint64Op specialized for comparisons: the result is
// always 0 or 1.
func binaryBoolOp(fn func(a, b uint64) bool) Handler {
	return binaryUint64Op(func(a, b uint64) (uint64, error) {
		if fn(a, b) {
			return 1, nil
		}
		return 0, nil
	})
}

func init() {
	register(OpSpec{Opcode: 0x08, Name: "+", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) {
		r := a + b
		if r < a {
			return 0, ErrIntegerOverflow
		}
		return r, nil
	})})
	register(OpSpec{Opcode: 0x09, Name: "-", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) {
		if b > a {
			return 0, ErrIntegerUnderflow
		}
		return a - b, nil
	})})
	register(OpSpec{Opcode: 0x0a, Name: "/", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) {
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	})})
	register(OpSpec{Opcode: 0x0b, Name: "*", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) {
		if a != 0 && b > ^uint64(0)/a {
			return 0, ErrIntegerOverflow
		}
		return a * b, nil
	})})
	register(OpSpec{Opcode: 0x0c, Name: "<", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryBoolOp(func(a, b uint64) bool { return a < b })})
	register(OpSpec{Opcode: 0x0d, Name: ">", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryBoolOp(func(a, b uint64) bool { return a > b })})
	register(OpSpec{Opcode: 0x0e, Name: "<=", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryBoolOp(func(a, b uint64) bool { return a <= b })})
	register(OpSpec{Opcode: 0x0f, Name: ">=", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryBoolOp(func(a, b uint64) bool { return a >= b })})
	register(OpSpec{Opcode: 0x10, Name: "&&", Cost: 1, Size: 1, Modes: modeBoth, Handler: logicalBinary(func(a, b bool) bool { return a && b })})
	register(OpSpec{Opcode: 0x11, Name: "||", Cost: 1, Size: 1, Modes: modeBoth, Handler: logicalBinary(func(a, b bool) bool { return a || b })})
	register(OpSpec{Opcode: 0x12, Name: "==", Cost: 1, Size: 1, Modes: modeBoth, Handler: equalityOp(true)})
	register(OpSpec{Opcode: 0x13, Name: "!=", Cost: 1, Size: 1, Modes: modeBoth, Handler: equalityOp(false)})
	register(OpSpec{Opcode: 0x14, Name: "!", Cost: 1, Size: 1, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		r := uint64(0)
		if !b {
			r = 1
		}
		if err := ctx.Push(Uint64Value(r)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}})
	register(OpSpec{Opcode: 0x15, Name: "len", Cost: 1, Size: 1, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		b, err := v.AsBytes()
		if err != nil {
			return err
		}
		if err := ctx.Push(Uint64Value(uint64(len(b)))); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}})
	register(OpSpec{Opcode: 0x16, Name: "itob", Cost: 1, Size: 1, Modes: modeBoth, Handler: opItob})
	register(OpSpec{Opcode: 0x17, Name: "btoi", Cost: 1, Size: 1, Modes: modeBoth, Handler: opBtoi})
	register(OpSpec{Opcode: 0x18, Name: "%", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) {
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a % b, nil
	})})
	register(OpSpec{Opcode: 0x19, Name: "|", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) { return a | b, nil })})
	register(OpSpec{Opcode: 0x1a, Name: "&", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) { return a & b, nil })})
	register(OpSpec{Opcode: 0x1b, Name: "^", Cost: 1, Size: 1, Modes: modeBoth, Handler: binaryUint64Op(func(a, b uint64) (uint64, error) { return a ^ b, nil })})
	register(OpSpec{Opcode: 0x1c, Name: "~", Cost: 1, Size: 1, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		n, err := v.AsUint64()
		if err != nil {
			return err
		}
		if err := ctx.Push(Uint64Value(^n)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}})
}

func logicalBinary(fn func(a, b bool) bool) Handler {
	return func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		a, err := vals[0].AsBool()
		if err != nil {
			return err
		}
		b, err := vals[1].AsBool()
		if err != nil {
			return err
		}
		r := uint64(0)
		if fn(a, b) {
			r = 1
		}
		if err := ctx.Push(Uint64Value(r)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

// equalityOp implements `==` (want==true) and `!=` (want==false). Both
// accept either Value variant and compare across variants as unequal.
func equalityOp(want bool) Handler {
	return func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		eq := vals[0].Equal(vals[1])
		r := uint64(0)
		if eq == want {
			r = 1
		}
		if err := ctx.Push(Uint64Value(r)); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func opItob(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	n, err := v.AsUint64()
	if err != nil {
		return err
	}
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	if err := ctx.Push(BytesValue(buf)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBtoi(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	if len(b) > 8 {
		return &InvalidByteArrayLengthError{Detail: "btoi operand longer than 8 bytes"}
	}
	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	if err := ctx.Push(Uint64Value(n)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}
