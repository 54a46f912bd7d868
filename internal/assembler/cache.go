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

package assembler

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru"
)

// disassemblyCacheSize bounds the memoization cache a long-lived process
// (one driving repeated disassemble calls over the same programs) uses to
// avoid re-walking bytecode it has already rendered.
const disassemblyCacheSize = 256

// Disassembler wraps Disassemble with an LRU memoization cache keyed by
// version and program hash, for callers that repeatedly disassemble the
// same small set of programs. The cmd/tealvm commands call Disassemble
// directly and do not use this cache.
type Disassembler struct {
	cache *lru.Cache
}

// NewDisassembler builds a Disassembler with a fresh cache.
func NewDisassembler() *Disassembler {
	c, _ := lru.New(disassemblyCacheSize)
	return &Disassembler{cache: c}
}

type disassemblyKey struct {
	version uint8
	digest  string
}

// Disassemble renders program, reusing a prior result for the same
// (version, program) pair when present.
func (d *Disassembler) Disassemble(version uint8, program []byte) (string, error) {
	sum := sha256.Sum256(program)
	key := disassemblyKey{version: version, digest: hex.EncodeToString(sum[:])}
	if v, ok := d.cache.Get(key); ok {
		return v.(string), nil
	}
	out, err := Disassemble(version, program)
	if err != nil {
		return "", err
	}
	d.cache.Add(key, out)
	return out, nil
}
