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
	"fmt"
	"strconv"
	"strings"

	"github.com/probelang/tealvm/internal/teal"
)

// Disassemble renders a bytecode program back into source text. Branch
// targets become synthetic "Lxxxx:" labels named after their byte offset,
// since the binary format carries no label names.
func Disassemble(version uint8, program []byte) (string, error) {
	return disassemble(version, program, false)
}

// DisassembleAnnotated is Disassemble plus a trailing "// cost=N total=M"
// comment on every instruction line, grounded on the original CLI's opcode
// info dump.
func DisassembleAnnotated(version uint8, program []byte) (string, error) {
	return disassemble(version, program, true)
}

func disassemble(version uint8, program []byte, annotate bool) (string, error) {
	table, err := teal.BuildOpTable(version)
	if err != nil {
		return "", err
	}

	labels := map[int]string{}
	labelAt := func(off int) string {
		if name, ok := labels[off]; ok {
			return name
		}
		name := fmt.Sprintf("L%d", off)
		labels[off] = name
		return name
	}

	type insn struct {
		pc   int
		text string
	}
	var insns []insn

	pc := 0
	var totalCost uint64
	for pc < len(program) {
		spec := table.Lookup(program[pc])
		if spec == nil {
			return "", &teal.InvalidOpcodeError{Opcode: program[pc], PC: pc}
		}
		text, size, err := disassembleOne(program, pc, spec, labelAt)
		if err != nil {
			return "", err
		}
		if annotate {
			totalCost += spec.Cost
			text = fmt.Sprintf("%-40s // cost=%d total=%d", text, spec.Cost, totalCost)
		}
		insns = append(insns, insn{pc: pc, text: text})
		pc += size
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#pragma version %d\n", version)
	for _, in := range insns {
		if name, ok := labels[in.pc]; ok {
			fmt.Fprintf(&b, "%s:\n", name)
		}
		b.WriteString(in.text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func disassembleOne(program []byte, pc int, spec *teal.OpSpec, labelAt func(int) string) (string, int, error) {
	name := spec.Name
	switch name {
	case "intcblock", "bytecblock", "pushints", "pushbytess":
		return disassembleBlock(program, pc, name)
	case "pushint":
		n := binary.BigEndian.Uint64(program[pc+1 : pc+9])
		return fmt.Sprintf("pushint %d", n), 9, nil
	case "pushbytes":
		l := int(program[pc+1])
		start := pc + 2
		b := program[start : start+l]
		return fmt.Sprintf("pushbytes 0x%x", b), (start + l) - pc, nil
	case "bnz", "bz", "b", "callsub":
		offset := int16(uint16(program[pc+1])<<8 | uint16(program[pc+2]))
		target := pc + 3 + int(offset)
		return fmt.Sprintf("%s %s", name, labelAt(target)), 3, nil
	case "switch", "match":
		count := int(program[pc+1])
		totalSize := 2 + count*2
		labelsStr := make([]string, count)
		for i := 0; i < count; i++ {
			pos := pc + 2 + i*2
			offset := int16(uint16(program[pos])<<8 | uint16(program[pos+1]))
			target := pc + totalSize + int(offset)
			labelsStr[i] = labelAt(target)
		}
		return fmt.Sprintf("%s %s", name, strings.Join(labelsStr, " ")), totalSize, nil
	case "proto":
		return fmt.Sprintf("proto %d %d", program[pc+1], program[pc+2]), 3, nil
	case "frame_dig", "frame_bury":
		return fmt.Sprintf("%s %d", name, int8(program[pc+1])), 2, nil
	case "substring", "extract":
		return fmt.Sprintf("%s %d %d", name, program[pc+1], program[pc+2]), 3, nil
	case "gtxna":
		return fmt.Sprintf("gtxna %d %s %d", program[pc+1], fieldName(txnFieldNames, program[pc+2]), program[pc+3]), 4, nil
	case "gtxn":
		return fmt.Sprintf("gtxn %d %s", program[pc+1], fieldName(txnFieldNames, program[pc+2])), 3, nil
	case "gtxnas":
		return fmt.Sprintf("gtxnas %d %s", program[pc+1], fieldName(txnFieldNames, program[pc+2])), 3, nil
	case "txna", "itxna":
		return fmt.Sprintf("%s %s %d", name, fieldName(txnFieldNames, program[pc+1]), program[pc+2]), 3, nil
	case "gtxnsa":
		return fmt.Sprintf("gtxnsa %s %d", fieldName(txnFieldNames, program[pc+1]), program[pc+2]), 3, nil
	case "txn", "txnas", "gtxns", "itxn", "itxnas", "itxn_field":
		return fmt.Sprintf("%s %s", name, fieldName(txnFieldNames, program[pc+1])), 2, nil
	case "global":
		return fmt.Sprintf("global %s", fieldName(globalFieldNames, program[pc+1])), 2, nil
	case "asset_holding_get":
		return fmt.Sprintf("asset_holding_get %s", fieldName(assetHoldingFieldNames, program[pc+1])), 2, nil
	case "asset_params_get":
		return fmt.Sprintf("asset_params_get %s", fieldName(assetParamsFieldNames, program[pc+1])), 2, nil
	case "app_params_get":
		return fmt.Sprintf("app_params_get %s", fieldName(appParamsFieldNames, program[pc+1])), 2, nil
	case "acct_params_get":
		return fmt.Sprintf("acct_params_get %s", fieldName(acctParamsFieldNames, program[pc+1])), 2, nil
	case "ecdsa_verify", "ecdsa_pk_decompress", "ecdsa_pk_recover":
		return fmt.Sprintf("%s %s", name, fieldName(ecdsaCurveNames, program[pc+1])), 2, nil
	case "vrf_verify":
		return fmt.Sprintf("vrf_verify %s", fieldName(vrfVariantNames, program[pc+1])), 2, nil
	case "mimc":
		return fmt.Sprintf("mimc %s", fieldName(mimcConfigNames, program[pc+1])), 2, nil
	}

	switch spec.Size {
	case 1:
		return name, 1, nil
	case 2:
		return fmt.Sprintf("%s %d", name, program[pc+1]), 2, nil
	default:
		return "", 0, &teal.InvalidProgramError{Detail: "disassembler does not know how to decode " + name}
	}
}

func fieldName(names []string, b byte) string {
	if int(b) < len(names) {
		return names[b]
	}
	return strconv.Itoa(int(b))
}

func disassembleBlock(program []byte, pc int, name string) (string, int, error) {
	count, n, err := teal.DecodeVaruint(program[pc+1:])
	if err != nil {
		return "", 0, err
	}
	pos := pc + 1 + n
	parts := []string{name}
	isBytes := name == "bytecblock" || name == "pushbytess"
	for i := uint64(0); i < count; i++ {
		if isBytes {
			l, ln, err := teal.DecodeVaruint(program[pos:])
			if err != nil {
				return "", 0, err
			}
			pos += ln
			parts = append(parts, fmt.Sprintf("0x%x", program[pos:pos+int(l)]))
			pos += int(l)
		} else {
			v, vn, err := teal.DecodeVaruint(program[pos:])
			if err != nil {
				return "", 0, err
			}
			parts = append(parts, strconv.FormatUint(v, 10))
			pos += vn
		}
	}
	return strings.Join(parts, " "), pos - pc, nil
}
