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

import "testing"

func newTestContext() *EvalContext {
	return NewEvalContext(nil, modeBoth, MaxVersion, DefaultCostBudget, nil, nil)
}

func TestStackPushPopOrder(t *testing.T) {
	ctx := newTestContext()
	for i := uint64(0); i < 3; i++ {
		if err := ctx.Push(Uint64Value(i)); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	for i := uint64(2); ; i-- {
		v, err := ctx.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if n, _ := v.AsUint64(); n != i {
			t.Fatalf("Pop() = %d, want %d", n, i)
		}
		if i == 0 {
			break
		}
	}
	if _, err := ctx.Pop(); err == nil {
		t.Fatalf("Pop on empty stack should fail")
	}
}

func TestStackOverflow(t *testing.T) {
	ctx := newTestContext()
	for i := 0; i < MaxStackDepth; i++ {
		if err := ctx.Push(Uint64Value(0)); err != nil {
			t.Fatalf("Push %d: unexpected error %v", i, err)
		}
	}
	if err := ctx.Push(Uint64Value(0)); err == nil {
		t.Fatalf("Push past MaxStackDepth should fail")
	}
}

func TestPopNOrderAndUnderflow(t *testing.T) {
	ctx := newTestContext()
	ctx.Push(Uint64Value(1))
	ctx.Push(Uint64Value(2))
	ctx.Push(Uint64Value(3))
	vals, err := ctx.PopN(2)
	if err != nil {
		t.Fatalf("PopN: %v", err)
	}
	a, _ := vals[0].AsUint64()
	b, _ := vals[1].AsUint64()
	if a != 2 || b != 3 {
		t.Fatalf("PopN(2) = [%d %d], want [2 3] (deepest first)", a, b)
	}
	if _, err := ctx.PopN(5); err == nil {
		t.Fatalf("PopN beyond stack depth should fail")
	}
}

func TestDigCoverUncoverViaInsertRemove(t *testing.T) {
	ctx := newTestContext()
	ctx.Push(Uint64Value(1))
	ctx.Push(Uint64Value(2))
	ctx.Push(Uint64Value(3))

	// dig 1 reads the value one below the top without removing it.
	v, err := ctx.PeekAt(1)
	if err != nil {
		t.Fatalf("PeekAt(1): %v", err)
	}
	if n, _ := v.AsUint64(); n != 2 {
		t.Fatalf("PeekAt(1) = %d, want 2", n)
	}

	// cover 1: remove the top, reinsert it one slot deeper.
	top, err := ctx.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if err := ctx.InsertAt(1, top); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	// stack is now [1, 3, 2]
	v, _ = ctx.Peek()
	if n, _ := v.AsUint64(); n != 2 {
		t.Fatalf("top after cover = %d, want 2", n)
	}
	v, _ = ctx.PeekAt(1)
	if n, _ := v.AsUint64(); n != 3 {
		t.Fatalf("second after cover = %d, want 3", n)
	}

	// uncover 1: remove the value one below the top, push it back on top.
	u, err := ctx.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if err := ctx.Push(u); err != nil {
		t.Fatalf("Push: %v", err)
	}
	// stack is back to [1, 2, 3]
	v, _ = ctx.Peek()
	if n, _ := v.AsUint64(); n != 3 {
		t.Fatalf("top after uncover = %d, want 3", n)
	}
}

func TestScratchLoadStore(t *testing.T) {
	ctx := newTestContext()
	ctx.ScratchStore(5, Uint64Value(99))
	v := ctx.ScratchLoad(5)
	if n, _ := v.AsUint64(); n != 99 {
		t.Fatalf("ScratchLoad(5) = %d, want 99", n)
	}
	if n, _ := ctx.ScratchLoad(6).AsUint64(); n != 0 {
		t.Fatalf("unwritten scratch slot should be the zero Value, got %d", n)
	}
}

func TestCallSubRetSubAndOverflow(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.CallSub(10, 100); err != nil {
		t.Fatalf("CallSub: %v", err)
	}
	if ctx.CallDepth() != 1 {
		t.Fatalf("CallDepth() = %d, want 1", ctx.CallDepth())
	}
	if ctx.PC != 100 {
		t.Fatalf("PC = %d, want 100", ctx.PC)
	}
	if err := ctx.RetSub(); err != nil {
		t.Fatalf("RetSub: %v", err)
	}
	if ctx.PC != 10 {
		t.Fatalf("PC after RetSub = %d, want 10", ctx.PC)
	}
	if err := ctx.RetSub(); err == nil {
		t.Fatalf("RetSub on an empty call stack should fail")
	}

	for i := 0; i < MaxCallDepth; i++ {
		if err := ctx.CallSub(0, 0); err != nil {
			t.Fatalf("CallSub %d: unexpected error %v", i, err)
		}
	}
	if err := ctx.CallSub(0, 0); err == nil {
		t.Fatalf("CallSub past MaxCallDepth should fail")
	}
}

func TestProtoFrameDigBuryOutermostScope(t *testing.T) {
	ctx := newTestContext()
	ctx.Push(Uint64Value(5))
	ctx.Push(Uint64Value(3))
	if err := ctx.Proto(2); err != nil {
		t.Fatalf("Proto: %v", err)
	}
	a, err := ctx.FrameDig(0)
	if err != nil {
		t.Fatalf("FrameDig(0): %v", err)
	}
	if n, _ := a.AsUint64(); n != 5 {
		t.Fatalf("FrameDig(0) = %d, want 5", n)
	}
	b, err := ctx.FrameDig(1)
	if err != nil {
		t.Fatalf("FrameDig(1): %v", err)
	}
	if n, _ := b.AsUint64(); n != 3 {
		t.Fatalf("FrameDig(1) = %d, want 3", n)
	}
	if err := ctx.FrameBury(0, Uint64Value(42)); err != nil {
		t.Fatalf("FrameBury: %v", err)
	}
	a, _ = ctx.FrameDig(0)
	if n, _ := a.AsUint64(); n != 42 {
		t.Fatalf("FrameDig(0) after bury = %d, want 42", n)
	}
}

func TestFrameDigBeforeProtoFails(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.FrameDig(0); err == nil {
		t.Fatalf("FrameDig before proto should fail")
	}
}

func TestChargeCostBudget(t *testing.T) {
	ctx := NewEvalContext(nil, modeBoth, MaxVersion, 10, nil, nil)
	if err := ctx.ChargeCost(5); err != nil {
		t.Fatalf("ChargeCost(5): %v", err)
	}
	if err := ctx.ChargeCost(5); err != nil {
		t.Fatalf("ChargeCost(5) at exactly the budget: %v", err)
	}
	if err := ctx.ChargeCost(1); err == nil {
		t.Fatalf("ChargeCost past the budget should fail")
	}
}

func TestIntByteConstPools(t *testing.T) {
	ctx := newTestContext()
	ctx.SetIntConsts([]uint64{10, 20})
	ctx.SetByteConsts([][]byte{[]byte("a"), []byte("b")})
	if n, err := ctx.IntConst(1); err != nil || n != 20 {
		t.Fatalf("IntConst(1) = %d, %v; want 20, nil", n, err)
	}
	if _, err := ctx.IntConst(5); err == nil {
		t.Fatalf("IntConst out of range should fail")
	}
	if b, err := ctx.ByteConst(0); err != nil || string(b) != "a" {
		t.Fatalf("ByteConst(0) = %q, %v; want a, nil", b, err)
	}
}

func TestAppendLogOrder(t *testing.T) {
	ctx := newTestContext()
	ctx.AppendLog([]byte("one"))
	ctx.AppendLog([]byte("two"))
	logs := ctx.Logs()
	if len(logs) != 2 || string(logs[0]) != "one" || string(logs[1]) != "two" {
		t.Fatalf("Logs() = %v, want [one two]", logs)
	}
}
