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

package tealledger

import (
	"testing"

	"github.com/probelang/tealvm/internal/teal"
)

func TestNewFillsNilMaps(t *testing.T) {
	l := New(Snapshot{})
	if _, _, err := l.AppGlobalGet(1, []byte("k")); err != nil {
		t.Fatalf("AppGlobalGet on a fresh ledger should not error: %v", err)
	}
}

func TestAppGlobalPutGetDel(t *testing.T) {
	l := New(Snapshot{CurrentApp: 7})
	if err := l.AppGlobalPut(7, []byte("k"), teal.Uint64Value(42)); err != nil {
		t.Fatalf("AppGlobalPut: %v", err)
	}
	v, ok, err := l.AppGlobalGet(7, []byte("k"))
	if err != nil || !ok {
		t.Fatalf("AppGlobalGet = %v, %v, %v; want found", v, ok, err)
	}
	if n, _ := v.AsUint64(); n != 42 {
		t.Fatalf("AppGlobalGet value = %d, want 42", n)
	}
	if err := l.AppGlobalDel(7, []byte("k")); err != nil {
		t.Fatalf("AppGlobalDel: %v", err)
	}
	if _, ok, _ := l.AppGlobalGet(7, []byte("k")); ok {
		t.Fatalf("expected key to be gone after AppGlobalDel")
	}
}

func TestAppLocalScopedByAddressAndApp(t *testing.T) {
	l := New(Snapshot{})
	var addrA, addrB teal.Address
	addrA[0] = 1
	addrB[0] = 2

	if err := l.AppLocalPut(addrA, 1, []byte("k"), teal.Uint64Value(1)); err != nil {
		t.Fatalf("AppLocalPut: %v", err)
	}
	if _, ok, _ := l.AppLocalGet(addrB, 1, []byte("k")); ok {
		t.Fatalf("a different address must not see addrA's local state")
	}
	if v, ok, _ := l.AppLocalGet(addrA, 1, []byte("k")); !ok {
		t.Fatalf("expected addrA's local state to be present")
	} else if n, _ := v.AsUint64(); n != 1 {
		t.Fatalf("local state value = %d, want 1", n)
	}
}

func TestBoxLifecycle(t *testing.T) {
	l := New(Snapshot{})
	if _, ok, _ := l.BoxGet([]byte("b")); ok {
		t.Fatalf("box should not exist yet")
	}
	if err := l.BoxPut([]byte("b"), []byte("content")); err != nil {
		t.Fatalf("BoxPut: %v", err)
	}
	n, ok, err := l.BoxLen([]byte("b"))
	if err != nil || !ok || n != len("content") {
		t.Fatalf("BoxLen = %d, %v, %v; want %d, true, nil", n, ok, err, len("content"))
	}
	existed, err := l.BoxDel([]byte("b"))
	if err != nil || !existed {
		t.Fatalf("BoxDel = %v, %v; want true, nil", existed, err)
	}
	if existed, _ := l.BoxDel([]byte("b")); existed {
		t.Fatalf("deleting an already-deleted box should report false")
	}
}

func TestTxnFieldReadsFromGroup(t *testing.T) {
	var sender teal.Address
	sender[0] = 9
	l := New(Snapshot{Group: []Transaction{{Sender: sender, Amount: 1000, ApplicationArgs: [][]byte{[]byte("a"), []byte("b")}}}})

	v, err := l.TxnField(0, teal.TxnAmount, 0)
	if err != nil {
		t.Fatalf("TxnField(Amount): %v", err)
	}
	if n, _ := v.AsUint64(); n != 1000 {
		t.Fatalf("TxnField(Amount) = %d, want 1000", n)
	}

	v, err = l.TxnField(0, teal.TxnApplicationArgs, 1)
	if err != nil {
		t.Fatalf("TxnField(ApplicationArgs, 1): %v", err)
	}
	b, _ := v.AsBytes()
	if string(b) != "b" {
		t.Fatalf("TxnField(ApplicationArgs, 1) = %q, want b", b)
	}

	if _, err := l.TxnField(5, teal.TxnAmount, 0); err == nil {
		t.Fatalf("expected an error for an out-of-range group index")
	}
}

func TestGlobalFieldGroupSize(t *testing.T) {
	l := New(Snapshot{Group: []Transaction{{}, {}, {}}})
	v, err := l.GlobalField(teal.GlobalGroupSize)
	if err != nil {
		t.Fatalf("GlobalField(GroupSize): %v", err)
	}
	if n, _ := v.AsUint64(); n != 3 {
		t.Fatalf("GroupSize = %d, want 3", n)
	}
}

func TestInnerTransactionLifecycle(t *testing.T) {
	l := New(Snapshot{})
	if err := l.ITxnField(teal.TxnAmount, teal.Uint64Value(1)); err == nil {
		t.Fatalf("ITxnField before ITxnBegin should fail")
	}
	if err := l.ITxnBegin(); err != nil {
		t.Fatalf("ITxnBegin: %v", err)
	}
	if err := l.ITxnField(teal.TxnAmount, teal.Uint64Value(500)); err != nil {
		t.Fatalf("ITxnField(Amount): %v", err)
	}
	id, err := l.ITxnSubmit()
	if err != nil {
		t.Fatalf("ITxnSubmit: %v", err)
	}
	if id == 0 {
		t.Fatalf("ITxnSubmit returned application id 0")
	}
	v, err := l.ITxnResultField(teal.TxnAmount, 0)
	if err != nil {
		t.Fatalf("ITxnResultField(Amount): %v", err)
	}
	if n, _ := v.AsUint64(); n != 500 {
		t.Fatalf("ITxnResultField(Amount) = %d, want 500", n)
	}
	if _, err := l.ITxnSubmit(); err == nil {
		t.Fatalf("a second ITxnSubmit without a new ITxnBegin should fail")
	}
}
