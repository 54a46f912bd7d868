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

func TestValueKindAccessors(t *testing.T) {
	u := Uint64Value(42)
	if !u.IsUint64() || u.IsBytes() {
		t.Fatalf("Uint64Value reported wrong kind")
	}
	if n, err := u.AsUint64(); err != nil || n != 42 {
		t.Fatalf("AsUint64() = %d, %v; want 42, nil", n, err)
	}
	if _, err := u.AsBytes(); err == nil {
		t.Fatalf("AsBytes() on a Uint64 value should fail")
	}

	b := BytesValue([]byte("hi"))
	if !b.IsBytes() || b.IsUint64() {
		t.Fatalf("BytesValue reported wrong kind")
	}
	if v, err := b.AsBytes(); err != nil || string(v) != "hi" {
		t.Fatalf("AsBytes() = %q, %v; want hi, nil", v, err)
	}
	if _, err := b.AsUint64(); err == nil {
		t.Fatalf("AsUint64() on a Bytes value should fail")
	}
}

func TestValueBoolPermissive(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Uint64Value(0), false},
		{Uint64Value(1), true},
		{Uint64Value(7), true},
		{BytesValue(nil), false},
		{BytesValue([]byte{0, 0}), false},
		{BytesValue([]byte{0, 1}), true},
	}
	for _, c := range cases {
		if got := c.v.Bool(); got != c.want {
			t.Errorf("Bool(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestValueAsBoolStrict(t *testing.T) {
	if _, err := BytesValue([]byte{1}).AsBool(); err == nil {
		t.Fatalf("AsBool() on Bytes should fail")
	}
	ok, err := Uint64Value(1).AsBool()
	if err != nil || !ok {
		t.Fatalf("AsBool(1) = %v, %v; want true, nil", ok, err)
	}
	ok, err = Uint64Value(0).AsBool()
	if err != nil || ok {
		t.Fatalf("AsBool(0) = %v, %v; want false, nil", ok, err)
	}
}

func TestValueEqual(t *testing.T) {
	if !Uint64Value(5).Equal(Uint64Value(5)) {
		t.Fatalf("equal uints should compare equal")
	}
	if Uint64Value(5).Equal(Uint64Value(6)) {
		t.Fatalf("unequal uints should not compare equal")
	}
	if !BytesValue([]byte("a")).Equal(BytesValue([]byte("a"))) {
		t.Fatalf("equal bytes should compare equal")
	}
	if BytesValue([]byte("a")).Equal(Uint64Value(97)) {
		t.Fatalf("cross-kind comparison must never be equal, even with matching codepoints")
	}
}

func TestValueString(t *testing.T) {
	if Uint64Value(0).String() != "0" {
		t.Fatalf("String(0) = %q, want 0", Uint64Value(0).String())
	}
	if Uint64Value(123).String() != "123" {
		t.Fatalf("String(123) = %q, want 123", Uint64Value(123).String())
	}
	if got := BytesValue([]byte{0xde, 0xad}).String(); got != "0xdead" {
		t.Fatalf("String(0xdead) = %q, want 0xdead", got)
	}
}
