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

// MaxBoxNameLength and MaxBoxContentLength bound the box_* opcode family,
// per the application-state capability list.
const (
	MaxBoxNameLength    = 64
	MaxBoxContentLength = 32768
)

func init() {
	register(OpSpec{Opcode: 0x6c, Name: "itxn_begin", Cost: 1, Size: 1, MinVersion: 5, Modes: ModeApplication, Handler: opItxnBegin})
	register(OpSpec{Opcode: 0x6d, Name: "itxn_field", Cost: 1, Size: 2, MinVersion: 5, Modes: ModeApplication, Handler: opItxnField})
	register(OpSpec{Opcode: 0x6e, Name: "itxn_submit", Cost: 1, Size: 1, MinVersion: 5, Modes: ModeApplication, Handler: opItxnSubmit})
	register(OpSpec{Opcode: 0x6f, Name: "itxn", Size: 2, MinVersion: 5, Modes: ModeApplication, Handler: opItxn})
	register(OpSpec{Opcode: 0x70, Name: "itxna", Size: 3, MinVersion: 5, Modes: ModeApplication, Handler: opItxna})
	register(OpSpec{Opcode: 0x71, Name: "itxnas", Size: 2, MinVersion: 6, Modes: ModeApplication, Handler: opItxnas})
	register(OpSpec{Opcode: 0x74, Name: "itxn_next", Cost: 1, Size: 1, MinVersion: 6, Modes: ModeApplication, Handler: opItxnNext})
	register(OpSpec{Opcode: 0x75, Name: "box_create", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxCreate})
	register(OpSpec{Opcode: 0x76, Name: "box_extract", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxExtract})
	register(OpSpec{Opcode: 0x77, Name: "box_replace", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxReplace})
	register(OpSpec{Opcode: 0x78, Name: "box_del", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxDel})
	register(OpSpec{Opcode: 0x79, Name: "box_len", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxLen})
	register(OpSpec{Opcode: 0x7a, Name: "box_get", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxGet})
	register(OpSpec{Opcode: 0x7b, Name: "box_put", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxPut})
	register(OpSpec{Opcode: 0x7c, Name: "box_resize", Cost: 1, Size: 1, MinVersion: 8, Modes: ModeApplication, Handler: opBoxResize})
}

func opItxnBegin(ctx *EvalContext) error {
	if err := ctx.Ledger.ITxnBegin(); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opItxnField(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	if err := ctx.Ledger.ITxnField(field, v); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC += 2
	return nil
}

func opItxnSubmit(ctx *EvalContext) error {
	if _, err := ctx.Ledger.ITxnSubmit(); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opItxn(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	val, err := ctx.Ledger.ITxnResultField(field, -1)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opItxna(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	idx := int(ctx.Program[ctx.PC+2])
	val, err := ctx.Ledger.ITxnResultField(field, idx)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opItxnas(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	idx, err := v.AsUint64()
	if err != nil {
		return err
	}
	val, err := ctx.Ledger.ITxnResultField(field, int(idx))
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

// opItxnNext starts a new inner transaction through LedgerView.ITxnBegin,
// the same call itxn_begin makes; this handler keeps no record of the
// inner transaction begun before it.
func opItxnNext(ctx *EvalContext) error {
	if err := ctx.Ledger.ITxnBegin(); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func boxName(v Value) ([]byte, error) {
	name, err := v.AsBytes()
	if err != nil {
		return nil, err
	}
	if len(name) == 0 || len(name) > MaxBoxNameLength {
		return nil, &InvalidByteArrayLengthError{Detail: "box name must be 1-64 bytes"}
	}
	return name, nil
}

func opBoxCreate(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	name, err := boxName(vals[0])
	if err != nil {
		return err
	}
	size, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	if size > MaxBoxContentLength {
		return &InvalidByteArrayLengthError{Detail: "box content exceeds maximum length"}
	}
	_, exists, err := ctx.Ledger.BoxLen(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if !exists {
		if err := ctx.Ledger.BoxPut(name, make([]byte, size)); err != nil {
			return &LedgerError{Err: err}
		}
	}
	r := uint64(0)
	if !exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBoxExtract(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	name, err := boxName(vals[0])
	if err != nil {
		return err
	}
	start, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	length, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	content, exists, err := ctx.Ledger.BoxGet(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if !exists {
		return &LedgerError{Err: ErrBoxNotFound}
	}
	out, err := sliceBytes(content, int(start), int(length))
	if err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBoxReplace(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	name, err := boxName(vals[0])
	if err != nil {
		return err
	}
	start, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	replacement, err := vals[2].AsBytes()
	if err != nil {
		return err
	}
	content, exists, err := ctx.Ledger.BoxGet(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if !exists {
		return &LedgerError{Err: ErrBoxNotFound}
	}
	if int(start)+len(replacement) > len(content) {
		return &InvalidByteArrayLengthError{Detail: "box_replace range exceeds box length"}
	}
	out := make([]byte, len(content))
	copy(out, content)
	copy(out[start:], replacement)
	if err := ctx.Ledger.BoxPut(name, out); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opBoxDel(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	name, err := boxName(v)
	if err != nil {
		return err
	}
	existed, err := ctx.Ledger.BoxDel(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	r := uint64(0)
	if existed {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBoxLen(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	name, err := boxName(v)
	if err != nil {
		return err
	}
	length, exists, err := ctx.Ledger.BoxLen(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(Uint64Value(uint64(length))); err != nil {
		return err
	}
	r := uint64(0)
	if exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBoxGet(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	name, err := boxName(v)
	if err != nil {
		return err
	}
	content, exists, err := ctx.Ledger.BoxGet(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if !exists {
		content = nil
	}
	if err := ctx.Push(BytesValue(content)); err != nil {
		return err
	}
	r := uint64(0)
	if exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opBoxPut(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	name, err := boxName(vals[0])
	if err != nil {
		return err
	}
	content, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	if len(content) > MaxBoxContentLength {
		return &InvalidByteArrayLengthError{Detail: "box content exceeds maximum length"}
	}
	if err := ctx.Ledger.BoxPut(name, content); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opBoxResize(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	name, err := boxName(vals[0])
	if err != nil {
		return err
	}
	newSize, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	if newSize > MaxBoxContentLength {
		return &InvalidByteArrayLengthError{Detail: "box content exceeds maximum length"}
	}
	content, exists, err := ctx.Ledger.BoxGet(name)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if !exists {
		content = nil
	}
	out := make([]byte, newSize)
	copy(out, content)
	if err := ctx.Ledger.BoxPut(name, out); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}
