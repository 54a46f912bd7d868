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

func init() {
	register(OpSpec{Opcode: 0x05, Name: "log", Cost: 1, Size: 1, MinVersion: 5, Modes: ModeApplication, Handler: opLog})
	register(OpSpec{Opcode: 0x31, Name: "txn", Size: 2, Modes: modeBoth, Handler: opTxn})
	register(OpSpec{Opcode: 0x32, Name: "txna", Size: 3, MinVersion: 2, Modes: modeBoth, Handler: opTxna})
	register(OpSpec{Opcode: 0x33, Name: "txnas", Size: 2, MinVersion: 5, Modes: modeBoth, Handler: opTxnas})
	register(OpSpec{Opcode: 0x34, Name: "gtxn", Size: 3, Modes: modeBoth, Handler: opGtxn})
	register(OpSpec{Opcode: 0x35, Name: "gtxna", Size: 4, MinVersion: 2, Modes: modeBoth, Handler: opGtxna})
	register(OpSpec{Opcode: 0x36, Name: "gtxns", Size: 2, MinVersion: 3, Modes: modeBoth, Handler: opGtxns})
	register(OpSpec{Opcode: 0x37, Name: "gtxnsa", Size: 3, MinVersion: 3, Modes: modeBoth, Handler: opGtxnsa})
	register(OpSpec{Opcode: 0x38, Name: "gtxnas", Size: 3, MinVersion: 5, Modes: modeBoth, Handler: opGtxnas})
	register(OpSpec{Opcode: 0x39, Name: "global", Size: 2, Modes: modeBoth, Handler: opGlobal})
}

func opLog(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	if len(ctx.Logs()) >= 32 {
		return &InvalidProgramError{Detail: "log call count exceeds 32 per program"}
	}
	ctx.AppendLog(b)
	ctx.PC++
	return nil
}

func opTxn(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	val, err := ctx.Ledger.TxnField(int(ctx.GroupIndex), field, -1)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opTxna(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	idx := int(ctx.Program[ctx.PC+2])
	val, err := ctx.Ledger.TxnField(int(ctx.GroupIndex), field, idx)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opTxnas(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	idx, err := v.AsUint64()
	if err != nil {
		return err
	}
	val, err := ctx.Ledger.TxnField(int(ctx.GroupIndex), field, int(idx))
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func checkGroupIndex(ctx *EvalContext, idx int) error {
	if idx < 0 || idx >= int(ctx.GroupSize) {
		return &InvalidTransactionFieldError{Detail: "group index out of range"}
	}
	return nil
}

func opGtxn(ctx *EvalContext) error {
	idx := int(ctx.Program[ctx.PC+1])
	field := TxnField(ctx.Program[ctx.PC+2])
	if err := checkGroupIndex(ctx, idx); err != nil {
		return err
	}
	val, err := ctx.Ledger.TxnField(idx, field, -1)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opGtxna(ctx *EvalContext) error {
	idx := int(ctx.Program[ctx.PC+1])
	field := TxnField(ctx.Program[ctx.PC+2])
	arrIdx := int(ctx.Program[ctx.PC+3])
	if err := checkGroupIndex(ctx, idx); err != nil {
		return err
	}
	val, err := ctx.Ledger.TxnField(idx, field, arrIdx)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 4
	return nil
}

func opGtxns(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	idx, err := v.AsUint64()
	if err != nil {
		return err
	}
	if err := checkGroupIndex(ctx, int(idx)); err != nil {
		return err
	}
	val, err := ctx.Ledger.TxnField(int(idx), field, -1)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opGtxnsa(ctx *EvalContext) error {
	field := TxnField(ctx.Program[ctx.PC+1])
	arrIdx := int(ctx.Program[ctx.PC+2])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	idx, err := v.AsUint64()
	if err != nil {
		return err
	}
	if err := checkGroupIndex(ctx, int(idx)); err != nil {
		return err
	}
	val, err := ctx.Ledger.TxnField(int(idx), field, arrIdx)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opGtxnas(ctx *EvalContext) error {
	groupIdx := int(ctx.Program[ctx.PC+1])
	field := TxnField(ctx.Program[ctx.PC+2])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	arrIdx, err := v.AsUint64()
	if err != nil {
		return err
	}
	if err := checkGroupIndex(ctx, groupIdx); err != nil {
		return err
	}
	val, err := ctx.Ledger.TxnField(groupIdx, field, int(arrIdx))
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 3
	return nil
}

func opGlobal(ctx *EvalContext) error {
	field := GlobalField(ctx.Program[ctx.PC+1])
	val, err := ctx.Ledger.GlobalField(field)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}
