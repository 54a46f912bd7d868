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

// Package tealutil holds small CLI-facing helpers shared by the
// cmd/tealvm subcommands: hex/byte argument parsing in the style of the
// wider codebase's common/types.go hex helpers.
package tealutil

import (
	"encoding/hex"
	"errors"
	"strings"
)

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// FromHex decodes s, which may carry an optional 0x prefix, into bytes. An
// odd-length input is left-padded with a zero nibble, matching the
// permissive convention CLI flag parsing favors over strict encoding
// validation.
func FromHex(s string) ([]byte, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// ToHex renders b as a 0x-prefixed lowercase hex string.
func ToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// ParseArgList splits a CLI --args value ("hex,hex,...") into its
// constituent byte slices.
func ParseArgList(s string) ([][]byte, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([][]byte, len(parts))
	for i, p := range parts {
		b, err := FromHex(p)
		if err != nil {
			return nil, errors.New("tealutil: invalid hex argument " + p)
		}
		out[i] = b
	}
	return out, nil
}
