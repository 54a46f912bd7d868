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

// Wide arithmetic (mulw, addw, divmodw, expw) needs intermediate precision
// beyond 64 bits before truncating or splitting the result; uint256.Int
// gives exact 256-bit arithmetic without the rounding a float64 detour
// would introduce, the same role it plays in coreth's EVM interpreter.

func init() {
	register(OpSpec{Opcode: 0x1d, Name: "mulw", Cost: 1, Size: 1, Modes: modeBoth, Handler: opMulw})
	register(OpSpec{Opcode: 0x1e, Name: "addw", Cost: 1, Size: 1, Modes: modeBoth, Handler: opAddw})
	register(OpSpec{Opcode: 0x1f, Name: "divmodw", Cost: 20, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: opDivmodw})
	register(OpSpec{Opcode: 0x94, Name: "expw", Cost: 10, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: opExpw})
	register(OpSpec{Opcode: 0x90, Name: "exp", Cost: 10, Size: 1, MinVersion: 4, Modes: modeBoth, Handler: opExp})
}

func opMulw(ctx *EvalContext) error {
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
	var x, y uint256.Int
	x.SetUint64(a)
	y.SetUint64(b)
	var product uint256.Int
	product.Mul(&x, &y)
	words := product.Bytes32()
	high := beUint64(words[0:8])
	low := beUint64(words[24:32])
	if err := ctx.Push(Uint64Value(low)); err != nil {
		return err
	}
	if err := ctx.Push(Uint64Value(high)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opAddw(ctx *EvalContext) error {
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
	var x, y uint256.Int
	x.SetUint64(a)
	y.SetUint64(b)
	var sum uint256.Int
	sum.Add(&x, &y)
	words := sum.Bytes32()
	high := beUint64(words[0:8])
	low := beUint64(words[24:32])
	if err := ctx.Push(Uint64Value(low)); err != nil {
		return err
	}
	if err := ctx.Push(Uint64Value(high)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

// opDivmodw divides the 128-bit value (aHi:aLo) by the 128-bit value
// (bHi:bLo), pushing quotient (hi, lo) then remainder (hi, lo).
func opDivmodw(ctx *EvalContext) error {
	vals, err := ctx.PopN(4)
	if err != nil {
		return err
	}
	aHi, err := vals[0].AsUint64()
	if err != nil {
		return err
	}
	aLo, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	bHi, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	bLo, err := vals[3].AsUint64()
	if err != nil {
		return err
	}
	a := uint256.NewInt(0).SetBytes(concatBE(aHi, aLo))
	b := uint256.NewInt(0).SetBytes(concatBE(bHi, bLo))
	if b.IsZero() {
		return ErrDivisionByZero
	}
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(a, b, r)
	if err := pushWide(ctx, q); err != nil {
		return err
	}
	if err := pushWide(ctx, r); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

// opExpw raises a to the power of b, pushing the 128-bit result as (lo, hi);
// it fails with IntegerOverflow if the true result needs more than 128 bits.
func opExpw(ctx *EvalContext) error {
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
	base := uint256.NewInt(a)
	result := uint256.NewInt(1)
	exp := uint256.NewInt(b)
	for !exp.IsZero() {
		var tmp uint256.Int
		if tmp.Mod(exp, uint256.NewInt(2)); tmp.Uint64() == 1 {
			overflow := result.MulOverflow(result, base)
			if overflow {
				return ErrIntegerOverflow
			}
		}
		exp.Rsh(exp, 1)
		if !exp.IsZero() {
			overflow := base.MulOverflow(base, base)
			if overflow && !exp.IsZero() {
				return ErrIntegerOverflow
			}
		}
	}
	hiLoLimit := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	if result.Cmp(hiLoLimit) >= 0 {
		return ErrIntegerOverflow
	}
	words := result.Bytes32()
	hi := beUint64(words[0:8])
	lo := beUint64(words[24:32])
	if err := ctx.Push(Uint64Value(lo)); err != nil {
		return err
	}
	if err := ctx.Push(Uint64Value(hi)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opExp(ctx *EvalContext) error {
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
	if a == 0 && b == 0 {
		return &InvalidProgramError{Detail: "0^0 is undefined for exp"}
	}
	result := uint256.NewInt(1)
	base := uint256.NewInt(a)
	for i := uint64(0); i < b; i++ {
		if overflow := result.MulOverflow(result, base); overflow {
			return ErrIntegerOverflow
		}
	}
	if !result.IsUint64() {
		return ErrIntegerOverflow
	}
	if err := ctx.Push(Uint64Value(result.Uint64())); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

// pushWide pushes v as (hi, lo), leaving lo on top. This is divmodw's own
// convention for its quotient and remainder; mulw, addw, and expw push
// (lo, hi) instead, so they don't call this helper.
func pushWide(ctx *EvalContext, v *uint256.Int) error {
	words := v.Bytes32()
	hi := beUint64(words[0:8])
	lo := beUint64(words[24:32])
	if err := ctx.Push(Uint64Value(hi)); err != nil {
		return err
	}
	return ctx.Push(Uint64Value(lo))
}

func beUint64(b []byte) uint64 {
	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	return n
}

func concatBE(hi, lo uint64) []byte {
	buf := make([]byte, 16)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(hi)
		hi >>= 8
	}
	for i := 15; i >= 8; i-- {
		buf[i] = byte(lo)
		lo >>= 8
	}
	return buf
}
