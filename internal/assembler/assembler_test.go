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
	"bytes"
	"testing"

	"github.com/probelang/tealvm/internal/teal"
)

func mustAssemble(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return prog
}

func mustApprove(t *testing.T, prog *Program) bool {
	t.Helper()
	vm, err := teal.NewVirtualMachine(prog.Version)
	if err != nil {
		t.Fatalf("NewVirtualMachine: %v", err)
	}
	result, err := vm.Execute(prog.Bytecode, teal.Config{
		Mode:       teal.ModeSignature,
		Version:    prog.Version,
		CostBudget: teal.DefaultCostBudget,
		GroupSize:  1,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return result.Approved
}

func TestAssembleArithmeticProgram(t *testing.T) {
	prog := mustAssemble(t, `#pragma version 6
pushint 2
pushint 3
+
pushint 5
==
return
`)
	if !mustApprove(t, prog) {
		t.Fatalf("expected approval")
	}
}

// TestScenarioFactorialViaCallsub is the iterative factorial scenario
// (fact(4) == 24) deferred from internal/teal/interpreter_test.go. It uses
// a callsub subroutine operating directly on the shared data stack: the
// caller pushes n, the subroutine leaves an accumulator below it and
// combines dig/bury to update both in place each iteration.
func TestScenarioFactorialViaCallsub(t *testing.T) {
	prog := mustAssemble(t, `#pragma version 8
pushint 4
callsub fact
pushint 24
==
return

fact:
pushint 1
loop:
dig 1
bz done
dig 1
dig 1
*
bury 0
dig 1
pushint 1
-
bury 1
b loop
done:
swap
pop
retsub
`)
	if !mustApprove(t, prog) {
		t.Fatalf("expected fact(4) == 24 to approve")
	}
}

func TestScenarioFactorialViaCallsubRejectsWrongAnswer(t *testing.T) {
	prog := mustAssemble(t, `#pragma version 8
pushint 4
callsub fact
pushint 25
==
return

fact:
pushint 1
loop:
dig 1
bz done
dig 1
dig 1
*
bury 0
dig 1
pushint 1
-
bury 1
b loop
done:
swap
pop
retsub
`)
	if mustApprove(t, prog) {
		t.Fatalf("fact(4) == 25 must not approve")
	}
}

// TestAssembleDisassembleRoundTrip checks that disassembling an assembled
// program and reassembling the result reproduces the same bytecode.
func TestAssembleDisassembleRoundTrip(t *testing.T) {
	src := `#pragma version 6
intcblock 10 20 30
bytecblock 0x0102 0x03
pushint 5
pushbytes 0x0a0b
dup
pop
bnz skip
err
skip:
pushint 1
return
`
	original := mustAssemble(t, src)

	text, err := Disassemble(original.Version, original.Bytecode)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	reassembled, err := Assemble(text)
	if err != nil {
		t.Fatalf("Assemble(disassembled text): %v\n--- text ---\n%s", err, text)
	}

	if reassembled.Version != original.Version {
		t.Fatalf("round-trip version = %d, want %d", reassembled.Version, original.Version)
	}
	if !bytes.Equal(reassembled.Bytecode, original.Bytecode) {
		t.Fatalf("round-trip bytecode mismatch:\noriginal    = %x\nreassembled = %x\ndisassembly:\n%s",
			original.Bytecode, reassembled.Bytecode, text)
	}
}

func TestDisassembleAnnotatedIncludesCost(t *testing.T) {
	prog := mustAssemble(t, "#pragma version 6\npushint 1\nreturn\n")
	text, err := DisassembleAnnotated(prog.Version, prog.Bytecode)
	if err != nil {
		t.Fatalf("DisassembleAnnotated: %v", err)
	}
	if !bytes.Contains([]byte(text), []byte("cost=")) {
		t.Fatalf("annotated disassembly missing cost comment:\n%s", text)
	}
}

func TestDisassemblerCacheReturnsSameResult(t *testing.T) {
	prog := mustAssemble(t, "#pragma version 6\npushint 7\nreturn\n")
	d := NewDisassembler()
	first, err := d.Disassemble(prog.Version, prog.Bytecode)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	second, err := d.Disassemble(prog.Version, prog.Bytecode)
	if err != nil {
		t.Fatalf("Disassemble (cached): %v", err)
	}
	if first != second {
		t.Fatalf("cached disassembly differs from first call")
	}
}

func TestDisassemblerCacheDistinguishesVersions(t *testing.T) {
	prog := mustAssemble(t, "#pragma version 6\npushint 7\nreturn\n")
	d := NewDisassembler()
	atSix, err := d.Disassemble(6, prog.Bytecode)
	if err != nil {
		t.Fatalf("Disassemble(6): %v", err)
	}
	atSeven, err := d.Disassemble(7, prog.Bytecode)
	if err != nil {
		t.Fatalf("Disassemble(7): %v", err)
	}
	if atSix == atSeven {
		t.Fatalf("cache returned the version-6 disassembly for a version-7 request")
	}
	if !bytes.HasPrefix([]byte(atSeven), []byte("#pragma version 7\n")) {
		t.Fatalf("version-7 disassembly does not start with its own #pragma line:\n%s", atSeven)
	}
}

func TestAssembleUnknownMnemonicErrors(t *testing.T) {
	_, err := Assemble("#pragma version 6\nfrobnicate\nreturn\n")
	if err == nil {
		t.Fatalf("expected an error for an unknown mnemonic")
	}
	if _, ok := err.(*teal.AssemblyError); !ok {
		t.Fatalf("got %T, want *teal.AssemblyError", err)
	}
}

func TestAssembleUndefinedLabelErrors(t *testing.T) {
	_, err := Assemble("#pragma version 6\npushint 1\nbnz nowhere\nreturn\n")
	if err == nil {
		t.Fatalf("expected an error for a reference to an undefined label")
	}
}

func TestAssembleDuplicateLabelErrors(t *testing.T) {
	_, err := Assemble(`#pragma version 6
top:
pushint 1
return
top:
pushint 2
return
`)
	if err == nil {
		t.Fatalf("expected an error for a duplicate label")
	}
}

func TestAssembleDefaultVersionWithNoPragma(t *testing.T) {
	prog := mustAssemble(t, "pushint 1\nreturn\n")
	if prog.Version != DefaultVersion {
		t.Fatalf("Version = %d, want DefaultVersion %d", prog.Version, DefaultVersion)
	}
}

func TestAssembleRejectsMalformedPragma(t *testing.T) {
	if _, err := Assemble("#pragma version\npushint 1\nreturn\n"); err == nil {
		t.Fatalf("expected an error for a malformed #pragma line")
	}
}

func TestAssembleBranchOutOfRangeRejected(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("#pragma version 6\npushint 1\nbnz far\n")
	// Pad with enough instructions (10 bytes per pushint/pop pair) to push
	// the label past the signed 16-bit displacement range.
	for i := 0; i < 40000; i++ {
		b.WriteString("pushint 1\npop\n")
	}
	b.WriteString("far:\nreturn\n")
	if _, err := Assemble(b.String()); err == nil {
		t.Fatalf("expected a branch-out-of-range error")
	}
}

func TestIndexOfFieldLookup(t *testing.T) {
	i, ok := indexOf(txnFieldNames, "Amount")
	if !ok {
		t.Fatalf("Amount not found in txnFieldNames")
	}
	if txnFieldNames[i] != "Amount" {
		t.Fatalf("indexOf returned %d, txnFieldNames[%d] = %s, want Amount", i, i, txnFieldNames[i])
	}
	if _, ok := indexOf(txnFieldNames, "NoSuchField"); ok {
		t.Fatalf("expected NoSuchField to be absent")
	}
}

func TestAssembleTxnFieldByName(t *testing.T) {
	prog := mustAssemble(t, "#pragma version 6\ntxn Amount\nreturn\n")
	field, ok := indexOf(txnFieldNames, "Amount")
	if !ok {
		t.Fatalf("Amount not found")
	}
	spec, ok := teal.ByName("txn")
	if !ok {
		t.Fatalf("txn not registered")
	}
	ret, ok := teal.ByName("return")
	if !ok {
		t.Fatalf("return not registered")
	}
	want := []byte{spec.Opcode, byte(field), ret.Opcode}
	if !bytes.Equal(prog.Bytecode, want) {
		t.Fatalf("txn Amount assembled to %x, want %x", prog.Bytecode, want)
	}
}

func TestLexLinesStripsCommentsRespectingQuotes(t *testing.T) {
	lines := lexLines("pushbytes \"a // not a comment\" // a real comment\n")
	if len(lines) != 1 {
		t.Fatalf("lexLines returned %d lines, want 1", len(lines))
	}
	if len(lines[0].fields) != 2 {
		t.Fatalf("fields = %v, want 2 fields", lines[0].fields)
	}
	if lines[0].fields[1] != `"a // not a comment"` {
		t.Fatalf("fields[1] = %q, want the quoted literal preserved whole", lines[0].fields[1])
	}
}

func TestLexLinesDropsBlankAndCommentOnlyLines(t *testing.T) {
	lines := lexLines("\n// just a comment\n   \npushint 1\n")
	if len(lines) != 1 {
		t.Fatalf("lexLines returned %d lines, want 1", len(lines))
	}
	if lines[0].fields[0] != "pushint" {
		t.Fatalf("unexpected surviving line: %v", lines[0].fields)
	}
}

func TestLexLinesTracksOneBasedLineNumbers(t *testing.T) {
	lines := lexLines("pushint 1\npushint 2\n")
	if lines[0].line != 1 || lines[1].line != 2 {
		t.Fatalf("line numbers = %d, %d; want 1, 2", lines[0].line, lines[1].line)
	}
}

func TestParseByteLiteralHexAndString(t *testing.T) {
	b, err := parseByteLiteral("0x0a0b")
	if err != nil || !bytes.Equal(b, []byte{0x0a, 0x0b}) {
		t.Fatalf("parseByteLiteral(0x0a0b) = %x, %v", b, err)
	}
	b, err = parseByteLiteral(`"hi"`)
	if err != nil || string(b) != "hi" {
		t.Fatalf(`parseByteLiteral("hi") = %q, %v`, b, err)
	}
	if _, err := parseByteLiteral("nope"); err == nil {
		t.Fatalf("expected an error for an unrecognized byte literal form")
	}
}
