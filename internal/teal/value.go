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

// MaxByteValueLength is the largest number of octets a single Bytes value
// may hold.
const MaxByteValueLength = 4096

// ValueKind discriminates the two variants of Value.
type ValueKind uint8

const (
	// TUint64 tags a Value holding an unsigned 64-bit integer.
	TUint64 ValueKind = iota
	// TBytes tags a Value holding an ordered byte sequence.
	TBytes
)

func (k ValueKind) String() string {
	switch k {
	case TUint64:
		return "uint64"
	case TBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is the tagged sum the interpreter operates on: either a uint64 or a
// byte string, never both. The zero Value is Uint64(0).
type Value struct {
	kind ValueKind
	u    uint64
	b    []byte
}

// Uint64Value constructs a Value holding n.
func Uint64Value(n uint64) Value { return Value{kind: TUint64, u: n} }

// BytesValue constructs a Value holding b. The caller must not mutate b
// afterwards; ownership passes to the Value.
func BytesValue(b []byte) Value { return Value{kind: TBytes, b: b} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsUint64 reports whether v holds the Uint64 variant.
func (v Value) IsUint64() bool { return v.kind == TUint64 }

// IsBytes reports whether v holds the Bytes variant.
func (v Value) IsBytes() bool { return v.kind == TBytes }

// Uint is the raw uint64 payload; meaningful only when IsUint64.
func (v Value) Uint() uint64 { return v.u }

// RawBytes is the raw byte payload; meaningful only when IsBytes. The
// returned slice is shared with v and must not be mutated.
func (v Value) RawBytes() []byte { return v.b }

// AsUint64 coerces v to uint64, failing with a TypeMismatchError if v holds
// Bytes.
func (v Value) AsUint64() (uint64, error) {
	if v.kind != TUint64 {
		return 0, &TypeMismatchError{Expected: TUint64.String(), Actual: v.kind.String()}
	}
	return v.u, nil
}

// AsBytes coerces v to a byte slice, failing with a TypeMismatchError if v
// holds Uint64.
func (v Value) AsBytes() ([]byte, error) {
	if v.kind != TBytes {
		return nil, &TypeMismatchError{Expected: TBytes.String(), Actual: v.kind.String()}
	}
	return v.b, nil
}

// Bool reports v's truthiness per the Value-model rule: Uint64(n) is true
// iff n != 0; Bytes(b) is true iff b is non-empty and contains at least one
// non-zero octet. Unlike AsBool, this never fails — it is the rule used by
// return, assert and the final-state check, which accept either variant.
func (v Value) Bool() bool {
	if v.kind == TUint64 {
		return v.u != 0
	}
	for _, c := range v.b {
		if c != 0 {
			return true
		}
	}
	return false
}

// AsBool is the strict logical coercion used by `!`, `&&`, `||`, bnz and bz:
// it requires the Uint64 variant and fails with a TypeMismatchError on Bytes,
// in contrast to the permissive Bool truthiness rule used by return, assert
// and the final-state check. See DESIGN.md for why the two are not the same
// method (the Value model text states both a permissive truthiness rule and
// a strict-coercion rule without reconciling them).
func (v Value) AsBool() (bool, error) {
	n, err := v.AsUint64()
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// Equal reports whether v and other compare equal for the `==` opcode:
// same kind and same payload. Cross-kind comparisons are always unequal
// (never an error) per spec: "==/!= accept both variants and return
// false/true across variants".
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == TUint64 {
		return v.u == other.u
	}
	if len(v.b) != len(other.b) {
		return false
	}
	for i := range v.b {
		if v.b[i] != other.b[i] {
			return false
		}
	}
	return true
}

// String renders v for diagnostics and disassembly traces.
func (v Value) String() string {
	if v.kind == TUint64 {
		return uitoa(v.u)
	}
	return hexdump(v.b)
}

func uitoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

const hexDigits = "0123456789abcdef"

func hexdump(b []byte) string {
	out := make([]byte, 2+len(b)*2)
	out[0], out[1] = '0', 'x'
	for i, c := range b {
		out[2+i*2] = hexDigits[c>>4]
		out[2+i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}
