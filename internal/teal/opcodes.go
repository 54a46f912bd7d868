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

// Mode selects which kind of program is being validated: a stateless
// logic signature or a stateful application call. Some opcodes are
// restricted to one mode or the other.
type Mode uint8

const (
	ModeSignature Mode = 1 << iota
	ModeApplication
)

// modeBoth is shorthand for opcodes usable in either mode.
const modeBoth = ModeSignature | ModeApplication

// Handler implements one opcode. It receives the live evaluation context
// and is responsible for advancing ctx.PC past its own opcode byte and any
// immediates — including writing ctx.PC directly for branches. A returned
// error aborts the enclosing Execute call.
type Handler func(ctx *EvalContext) error

// OpSpec fully describes one opcode: its byte, mnemonic, handler, cost,
// static encoded size (immediates included — used only by the assembler/
// disassembler, never consulted by the interpreter's dispatch loop), the
// modes it may run in, and the lowest program version that may use it.
type OpSpec struct {
	Opcode     byte
	Name       string
	Handler    Handler
	Cost       uint64
	Size       int // -1 means variable-length; disassembler computes it
	Modes      Mode
	MinVersion uint8
}

// MaxVersion is the newest program version this build of the engine knows
// how to execute.
const MaxVersion = 8

// MaxStackDepth is the hard limit on EvalContext.stack length.
const MaxStackDepth = 1000

// MaxCallDepth is the hard limit on EvalContext.callStack length.
const MaxCallDepth = 8

// ScratchSlots is the fixed size of EvalContext.scratch.
const ScratchSlots = 256

// masterRegistry is the full catalogue of opcodes across every version this
// engine supports, in registration order (not sorted by opcode byte).
// BuildOpTable indexes this list into one version's dense dispatch array
// the way a hard-fork's JumpTable is built from a shared master instruction
// catalogue.
var masterRegistry []OpSpec

// register appends one opcode definition to the master registry. Called
// only from package-level init() functions in the handlers_*.go files, one
// category per file, mirroring the teacher's category-commented opcode
// switch generalized into a data-driven table.
func register(spec OpSpec) {
	masterRegistry = append(masterRegistry, spec)
}

// OpTable is the dense, per-version opcode lookup: a 256-entry array
// indexed directly by opcode byte so the interpreter's hot loop never
// touches a map.
type OpTable struct {
	version uint8
	entries [256]*OpSpec
}

// Lookup returns the OpSpec for b, or nil if b is unassigned at this
// table's version.
func (t *OpTable) Lookup(b byte) *OpSpec { return t.entries[b] }

// Version reports the version this table was built for.
func (t *OpTable) Version() uint8 { return t.version }

// tableCache memoizes BuildOpTable per version; the master registry never
// changes after package init, so the same version always produces the same
// table.
var tableCache = map[uint8]*OpTable{}

// BuildOpTable constructs the dense opcode table for version. Every
// registered opcode byte is reachable through Lookup regardless of its
// MinVersion: a byte with no master-registry entry at all is genuinely
// unknown (InvalidOpcodeError at dispatch), while a byte whose spec exists
// but whose MinVersion exceeds version is known but not yet available
// (OpcodeNotAvailableError at dispatch) — Execute distinguishes the two by
// comparing cfg.Version against the looked-up spec.MinVersion itself.
// Construction happens once per distinct version and is cached;
// VirtualMachine holds the result for the lifetime of the process.
func BuildOpTable(version uint8) (*OpTable, error) {
	if version == 0 || version > MaxVersion {
		return nil, &UnsupportedVersionError{Version: version}
	}
	if t, ok := tableCache[version]; ok {
		return t, nil
	}
	t := &OpTable{version: version}
	for i := range masterRegistry {
		spec := &masterRegistry[i]
		t.entries[spec.Opcode] = spec
	}
	tableCache[version] = t
	return t, nil
}

// ByName looks up a master-registry entry by mnemonic, for the assembler.
// It returns the first registered definition for that mnemonic name if
// more than one opcode byte ever shared a name (none currently do).
func ByName(name string) (*OpSpec, bool) {
	for i := range masterRegistry {
		if masterRegistry[i].Name == name {
			return &masterRegistry[i], true
		}
	}
	return nil, false
}

// AllSpecs returns a copy of the full master registry, in registration
// order.
func AllSpecs() []OpSpec {
	out := make([]OpSpec, len(masterRegistry))
	copy(out, masterRegistry)
	return out
}
