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
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/probelang/tealvm/internal/teal"
)

// Program is an assembled bytecode program ready for teal.VirtualMachine.
type Program struct {
	Version uint8
	Bytecode []byte
}

// DefaultVersion is used when source carries no #pragma version line.
const DefaultVersion = 6

// labelPatch records a forward (or backward) reference to a label that
// must be resolved into a relative branch offset once every label's
// address is known.
type labelPatch struct {
	pos   int // byte offset of the 2-byte displacement to write
	base  int // offset the displacement is relative to (end of instruction)
	label string
	line  int
}

// assembler holds the mutable state of a single Assemble call, mirroring
// the teacher's codegen.Generator: a growing code buffer, a label table,
// and a list of patches resolved in one pass at the end.
type assembler struct {
	version uint8
	code    []byte
	labels  map[string]int
	patches []labelPatch
}

// Assemble compiles TEAL-like source text into a Program. It performs two
// passes: the first walks the source once, emitting bytes and recording
// label offsets and forward-reference patches; the second resolves every
// patch now that all labels are known.
func Assemble(src string) (*Program, error) {
	lines := lexLines(src)
	a := &assembler{version: DefaultVersion, labels: map[string]int{}}

	start := 0
	if len(lines) > 0 && len(lines[0].fields) >= 1 && lines[0].fields[0] == "#pragma" {
		if len(lines[0].fields) != 3 || lines[0].fields[1] != "version" {
			return nil, &teal.AssemblyError{Line: lines[0].line, Detail: "malformed #pragma line"}
		}
		v, err := strconv.ParseUint(lines[0].fields[2], 10, 8)
		if err != nil {
			return nil, &teal.AssemblyError{Line: lines[0].line, Detail: "invalid version number"}
		}
		a.version = uint8(v)
		start = 1
	}

	for _, ln := range lines[start:] {
		if err := a.assembleLine(ln); err != nil {
			return nil, err
		}
	}

	for _, p := range a.patches {
		target, ok := a.labels[p.label]
		if !ok {
			return nil, &teal.AssemblyError{Line: p.line, Detail: "undefined label: " + p.label}
		}
		offset := target - p.base
		if offset < -32768 || offset > 32767 {
			return nil, &teal.AssemblyError{Line: p.line, Detail: "branch target out of 16-bit range: " + p.label}
		}
		a.code[p.pos] = byte(int16(offset) >> 8)
		a.code[p.pos+1] = byte(int16(offset))
	}

	return &Program{Version: a.version, Bytecode: a.code}, nil
}

func (a *assembler) assembleLine(ln sourceLine) error {
	first := ln.fields[0]
	if len(ln.fields) == 1 && strings.HasSuffix(first, ":") {
		label := strings.TrimSuffix(first, ":")
		if _, dup := a.labels[label]; dup {
			return &teal.AssemblyError{Line: ln.line, Detail: "duplicate label: " + label}
		}
		a.labels[label] = len(a.code)
		return nil
	}
	mnemonic := first
	args := ln.fields[1:]
	spec, ok := teal.ByName(mnemonic)
	if !ok {
		return &teal.AssemblyError{Line: ln.line, Detail: "unknown mnemonic: " + mnemonic}
	}
	return a.encode(spec, args, ln.line)
}

func (a *assembler) emit(b ...byte) { a.code = append(a.code, b...) }

func (a *assembler) emitVaruint(n uint64) { a.code = teal.EncodeVaruint(a.code, n) }

// emitUint64BE emits n as the fixed 8-byte big-endian immediate pushint
// requires, distinct from intcblock's varuint-encoded entries.
func (a *assembler) emitUint64BE(n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	a.emit(buf[:]...)
}

// branchOperand emits a placeholder 2-byte displacement for label and
// records a patch relative to base (the offset one past the placeholder,
// i.e. the start of the next instruction).
func (a *assembler) branchOperand(label string, line int) {
	pos := len(a.code)
	a.emit(0, 0)
	a.patches = append(a.patches, labelPatch{pos: pos, base: len(a.code), label: label, line: line})
}

func (a *assembler) encode(spec *teal.OpSpec, args []string, line int) error {
	op := spec.Opcode
	name := spec.Name

	switch name {
	case "intcblock":
		a.emit(op)
		a.emitVaruint(uint64(len(args)))
		for _, s := range args {
			n, err := parseUint64(s)
			if err != nil {
				return &teal.AssemblyError{Line: line, Detail: "intcblock: " + err.Error()}
			}
			a.emitVaruint(n)
		}
		return nil

	case "bytecblock":
		a.emit(op)
		a.emitVaruint(uint64(len(args)))
		for _, s := range args {
			b, err := parseByteLiteral(s)
			if err != nil {
				return &teal.AssemblyError{Line: line, Detail: "bytecblock: " + err.Error()}
			}
			a.emitVaruint(uint64(len(b)))
			a.emit(b...)
		}
		return nil

	case "pushint":
		n, err := expectUint64(args, line, name)
		if err != nil {
			return err
		}
		a.emit(op)
		a.emitUint64BE(n)
		return nil

	case "pushbytes":
		b, err := expectByteLiteral(args, line, name)
		if err != nil {
			return err
		}
		if len(b) > 255 {
			return &teal.AssemblyError{Line: line, Detail: "pushbytes: literal longer than 255 bytes"}
		}
		a.emit(op, byte(len(b)))
		a.emit(b...)
		return nil

	case "pushints":
		a.emit(op)
		a.emitVaruint(uint64(len(args)))
		for _, s := range args {
			n, err := parseUint64(s)
			if err != nil {
				return &teal.AssemblyError{Line: line, Detail: "pushints: " + err.Error()}
			}
			a.emitVaruint(n)
		}
		return nil

	case "pushbytess":
		a.emit(op)
		a.emitVaruint(uint64(len(args)))
		for _, s := range args {
			b, err := parseByteLiteral(s)
			if err != nil {
				return &teal.AssemblyError{Line: line, Detail: "pushbytess: " + err.Error()}
			}
			a.emitVaruint(uint64(len(b)))
			a.emit(b...)
		}
		return nil

	case "bnz", "bz", "b", "callsub":
		label, err := expectOneArg(args, line, name)
		if err != nil {
			return err
		}
		a.emit(op)
		a.branchOperand(label, line)
		return nil

	case "switch", "match":
		a.emit(op, byte(len(args)))
		// Every target is relative to the end of the whole instruction,
		// not to the end of its own 2-byte offset.
		end := len(a.code) + 2*len(args)
		for _, label := range args {
			pos := len(a.code)
			a.emit(0, 0)
			a.patches = append(a.patches, labelPatch{pos: pos, base: end, label: label, line: line})
		}
		return nil

	case "proto":
		if len(args) != 2 {
			return &teal.AssemblyError{Line: line, Detail: name + " takes two arguments"}
		}
		nArgs, err1 := parseUint8(args[0])
		nRets, err2 := parseUint8(args[1])
		if err1 != nil || err2 != nil {
			return &teal.AssemblyError{Line: line, Detail: name + ": bad argument count"}
		}
		a.emit(op, nArgs, nRets)
		return nil

	case "frame_dig", "frame_bury":
		n, err := expectInt8(args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, byte(n))
		return nil

	case "substring":
		return a.emitTwoUint8(op, args, line, name)
	case "extract":
		return a.emitTwoUint8(op, args, line, name)

	case "gtxna":
		if len(args) != 3 {
			return &teal.AssemblyError{Line: line, Detail: name + " takes groupindex field index"}
		}
		idx, err1 := parseUint8(args[0])
		field, err2 := lookupField(txnFieldNames, args[1])
		arr, err3 := parseUint8(args[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return &teal.AssemblyError{Line: line, Detail: name + ": bad operands"}
		}
		a.emit(op, idx, field, arr)
		return nil

	case "gtxn":
		if len(args) != 2 {
			return &teal.AssemblyError{Line: line, Detail: name + " takes groupindex field"}
		}
		idx, err1 := parseUint8(args[0])
		field, err2 := lookupField(txnFieldNames, args[1])
		if err1 != nil || err2 != nil {
			return &teal.AssemblyError{Line: line, Detail: name + ": bad operands"}
		}
		a.emit(op, idx, field)
		return nil

	case "gtxnas":
		if len(args) != 2 {
			return &teal.AssemblyError{Line: line, Detail: name + " takes groupindex field"}
		}
		idx, err1 := parseUint8(args[0])
		field, err2 := lookupField(txnFieldNames, args[1])
		if err1 != nil || err2 != nil {
			return &teal.AssemblyError{Line: line, Detail: name + ": bad operands"}
		}
		a.emit(op, idx, field)
		return nil

	case "txna", "itxna":
		if len(args) != 2 {
			return &teal.AssemblyError{Line: line, Detail: name + " takes field index"}
		}
		field, err1 := lookupField(txnFieldNames, args[0])
		idx, err2 := parseUint8(args[1])
		if err1 != nil || err2 != nil {
			return &teal.AssemblyError{Line: line, Detail: name + ": bad operands"}
		}
		a.emit(op, field, idx)
		return nil

	case "gtxnsa":
		if len(args) != 2 {
			return &teal.AssemblyError{Line: line, Detail: name + " takes field index"}
		}
		field, err1 := lookupField(txnFieldNames, args[0])
		idx, err2 := parseUint8(args[1])
		if err1 != nil || err2 != nil {
			return &teal.AssemblyError{Line: line, Detail: name + ": bad operands"}
		}
		a.emit(op, field, idx)
		return nil

	case "txn", "txnas", "gtxns", "itxn", "itxnas", "itxn_field":
		field, err := expectField(txnFieldNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "global":
		field, err := expectField(globalFieldNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "asset_holding_get":
		field, err := expectField(assetHoldingFieldNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "asset_params_get":
		field, err := expectField(assetParamsFieldNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "app_params_get":
		field, err := expectField(appParamsFieldNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "acct_params_get":
		field, err := expectField(acctParamsFieldNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "ecdsa_verify", "ecdsa_pk_decompress", "ecdsa_pk_recover":
		field, err := expectField(ecdsaCurveNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "vrf_verify":
		field, err := expectField(vrfVariantNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	case "mimc":
		field, err := expectField(mimcConfigNames, args, line, name)
		if err != nil {
			return err
		}
		a.emit(op, field)
		return nil

	default:
		// Every remaining opcode is either a no-operand instruction (Size
		// 1) or takes exactly one decimal uint8 immediate (intc, bytec,
		// arg, dig, swap/select have no args, cover, uncover, dupn, popn,
		// bury).
		switch spec.Size {
		case 1:
			if len(args) != 0 {
				return &teal.AssemblyError{Line: line, Detail: name + " takes no operands"}
			}
			a.emit(op)
			return nil
		case 2:
			n, err := expectUint8(args, line, name)
			if err != nil {
				return err
			}
			a.emit(op, n)
			return nil
		default:
			return &teal.AssemblyError{Line: line, Detail: "assembler does not know how to encode " + name}
		}
	}
}

func (a *assembler) emitTwoUint8(op byte, args []string, line int, name string) error {
	if len(args) != 2 {
		return &teal.AssemblyError{Line: line, Detail: name + " takes two operands"}
	}
	x, err1 := parseUint8(args[0])
	y, err2 := parseUint8(args[1])
	if err1 != nil || err2 != nil {
		return &teal.AssemblyError{Line: line, Detail: name + ": bad operands"}
	}
	a.emit(op, x, y)
	return nil
}

func expectOneArg(args []string, line int, name string) (string, error) {
	if len(args) != 1 {
		return "", &teal.AssemblyError{Line: line, Detail: name + " takes exactly one operand"}
	}
	return args[0], nil
}

func expectUint8(args []string, line int, name string) (byte, error) {
	s, err := expectOneArg(args, line, name)
	if err != nil {
		return 0, err
	}
	n, err := parseUint8(s)
	if err != nil {
		return 0, &teal.AssemblyError{Line: line, Detail: name + ": " + err.Error()}
	}
	return n, nil
}

func expectInt8(args []string, line int, name string) (int8, error) {
	s, err := expectOneArg(args, line, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, &teal.AssemblyError{Line: line, Detail: name + ": " + err.Error()}
	}
	return int8(n), nil
}

func expectUint64(args []string, line int, name string) (uint64, error) {
	s, err := expectOneArg(args, line, name)
	if err != nil {
		return 0, err
	}
	n, err := parseUint64(s)
	if err != nil {
		return 0, &teal.AssemblyError{Line: line, Detail: name + ": " + err.Error()}
	}
	return n, nil
}

func expectByteLiteral(args []string, line int, name string) ([]byte, error) {
	s, err := expectOneArg(args, line, name)
	if err != nil {
		return nil, err
	}
	b, err := parseByteLiteral(s)
	if err != nil {
		return nil, &teal.AssemblyError{Line: line, Detail: name + ": " + err.Error()}
	}
	return b, nil
}

func expectField(names []string, args []string, line int, name string) (byte, error) {
	s, err := expectOneArg(args, line, name)
	if err != nil {
		return 0, err
	}
	b, ferr := lookupFieldAt(names, s, line)
	return b, ferr
}

func lookupField(names []string, s string) (byte, error) {
	return lookupFieldAt(names, s, 0)
}

func lookupFieldAt(names []string, s string, line int) (byte, error) {
	i, ok := indexOf(names, s)
	if !ok {
		return 0, &teal.AssemblyError{Line: line, Detail: "unknown field: " + s}
	}
	return byte(i), nil
}

func parseUint8(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return byte(n), nil
}

func parseUint64(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// parseByteLiteral accepts either a 0x-prefixed hex string or a
// double-quoted Go-style string literal.
func parseByteLiteral(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") {
		return hex.DecodeString(s[2:])
	}
	if strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") && len(s) >= 2 {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil, err
		}
		return []byte(unquoted), nil
	}
	return nil, &strconvError{s}
}

type strconvError struct{ s string }

func (e *strconvError) Error() string { return "invalid byte literal: " + e.s }
