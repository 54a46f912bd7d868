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

func TestVaruintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 16384, 1 << 32, ^uint64(0)}
	for _, v := range values {
		enc := EncodeVaruint(nil, v)
		got, n, err := DecodeVaruint(enc)
		if err != nil {
			t.Fatalf("DecodeVaruint(%x) error: %v", enc, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %x -> %d, want %d", v, enc, got, v)
		}
		if n != len(enc) {
			t.Errorf("DecodeVaruint consumed %d bytes, want %d", n, len(enc))
		}
	}
}

func TestVaruintSingleByteForSmallValues(t *testing.T) {
	for v := uint64(0); v < 0x80; v++ {
		enc := EncodeVaruint(nil, v)
		if len(enc) != 1 {
			t.Fatalf("EncodeVaruint(%d) = %x, want single byte", v, enc)
		}
	}
}

func TestDecodeVaruintIncomplete(t *testing.T) {
	if _, _, err := DecodeVaruint([]byte{0x80}); err == nil {
		t.Fatalf("expected error decoding a truncated varuint")
	}
	if _, _, err := DecodeVaruint(nil); err == nil {
		t.Fatalf("expected error decoding an empty buffer")
	}
}

func TestDecodeVaruintOverflow(t *testing.T) {
	// 9 continuation bytes of 0xff followed by a tenth byte > 1 overflows 64 bits.
	buf := make([]byte, 10)
	for i := 0; i < 9; i++ {
		buf[i] = 0xff
	}
	buf[9] = 0x02
	if _, _, err := DecodeVaruint(buf); err == nil {
		t.Fatalf("expected overflow error, got none")
	}
}

func TestDecodeVaruintConsumesOnlyOneValue(t *testing.T) {
	enc := EncodeVaruint(nil, 300)
	enc = append(enc, 0x7f) // trailing byte belonging to the next field
	got, n, err := DecodeVaruint(enc)
	if err != nil {
		t.Fatalf("DecodeVaruint error: %v", err)
	}
	if got != 300 {
		t.Fatalf("got %d, want 300", got)
	}
	if n != len(enc)-1 {
		t.Fatalf("consumed %d bytes, want %d (trailing byte must be left alone)", n, len(enc)-1)
	}
}
