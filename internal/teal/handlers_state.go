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

func toAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != len(a) {
		return a, &InvalidByteArrayLengthError{Detail: "expected a 32-byte address"}
	}
	copy(a[:], b)
	return a, nil
}

func pushExists(ctx *EvalContext, v Value, exists bool) error {
	if err := ctx.Push(v); err != nil {
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

func init() {
	register(OpSpec{Opcode: 0xa0, Name: "balance", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opBalance})
	register(OpSpec{Opcode: 0xa1, Name: "min_balance", Cost: 1, Size: 1, MinVersion: 3, Modes: ModeApplication, Handler: opMinBalance})
	register(OpSpec{Opcode: 0xa2, Name: "app_opted_in", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppOptedIn})
	register(OpSpec{Opcode: 0xa3, Name: "app_local_get", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppLocalGet})
	register(OpSpec{Opcode: 0xa4, Name: "app_local_get_ex", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppLocalGetEx})
	register(OpSpec{Opcode: 0xa5, Name: "app_global_get", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppGlobalGet})
	register(OpSpec{Opcode: 0xa6, Name: "app_global_get_ex", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppGlobalGetEx})
	register(OpSpec{Opcode: 0xa7, Name: "app_local_put", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppLocalPut})
	register(OpSpec{Opcode: 0xa8, Name: "app_global_put", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppGlobalPut})
	register(OpSpec{Opcode: 0xa9, Name: "app_local_del", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppLocalDel})
	register(OpSpec{Opcode: 0xaa, Name: "app_global_del", Cost: 1, Size: 1, MinVersion: 2, Modes: ModeApplication, Handler: opAppGlobalDel})
	register(OpSpec{Opcode: 0xab, Name: "asset_holding_get", Size: 2, MinVersion: 2, Modes: ModeApplication, Handler: opAssetHoldingGet})
	register(OpSpec{Opcode: 0xac, Name: "asset_params_get", Size: 2, MinVersion: 2, Modes: ModeApplication, Handler: opAssetParamsGet})
	register(OpSpec{Opcode: 0xad, Name: "app_params_get", Size: 2, MinVersion: 5, Modes: ModeApplication, Handler: opAppParamsGet})
	register(OpSpec{Opcode: 0xae, Name: "acct_params_get", Size: 2, MinVersion: 6, Modes: ModeApplication, Handler: opAcctParamsGet})
}

func opBalance(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(b)
	if err != nil {
		return err
	}
	bal, err := ctx.Ledger.Balance(addr)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(Uint64Value(bal)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opMinBalance(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(b)
	if err != nil {
		return err
	}
	bal, err := ctx.Ledger.MinBalance(addr)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(Uint64Value(bal)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opAppOptedIn(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	addrB, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	appID, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	addr, err := toAddress(addrB)
	if err != nil {
		return err
	}
	ok, err := ctx.Ledger.AppOptedIn(addr, appID)
	if err != nil {
		return &LedgerError{Err: err}
	}
	r := uint64(0)
	if ok {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opAppLocalGet(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	addrB, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	key, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(addrB)
	if err != nil {
		return err
	}
	appID, err := ctx.Ledger.CurrentApplicationID()
	if err != nil {
		return &LedgerError{Err: err}
	}
	val, _, err := ctx.Ledger.AppLocalGet(addr, appID, key)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opAppLocalGetEx(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	addrB, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	appID, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	key, err := vals[2].AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(addrB)
	if err != nil {
		return err
	}
	val, exists, err := ctx.Ledger.AppLocalGet(addr, appID, key)
	if err != nil {
		return &LedgerError{Err: err}
	}
	return pushExists(ctx, val, exists)
}

func opAppGlobalGet(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	key, err := v.AsBytes()
	if err != nil {
		return err
	}
	appID, err := ctx.Ledger.CurrentApplicationID()
	if err != nil {
		return &LedgerError{Err: err}
	}
	val, _, err := ctx.Ledger.AppGlobalGet(appID, key)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opAppGlobalGetEx(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	appID, err := vals[0].AsUint64()
	if err != nil {
		return err
	}
	key, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	val, exists, err := ctx.Ledger.AppGlobalGet(appID, key)
	if err != nil {
		return &LedgerError{Err: err}
	}
	return pushExists(ctx, val, exists)
}

func opAppLocalPut(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	addrB, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	key, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(addrB)
	if err != nil {
		return err
	}
	appID, err := ctx.Ledger.CurrentApplicationID()
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Ledger.AppLocalPut(addr, appID, key, vals[2]); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opAppGlobalPut(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	key, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	appID, err := ctx.Ledger.CurrentApplicationID()
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Ledger.AppGlobalPut(appID, key, vals[1]); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opAppLocalDel(ctx *EvalContext) error {
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	addrB, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	key, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(addrB)
	if err != nil {
		return err
	}
	appID, err := ctx.Ledger.CurrentApplicationID()
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Ledger.AppLocalDel(addr, appID, key); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opAppGlobalDel(ctx *EvalContext) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	key, err := v.AsBytes()
	if err != nil {
		return err
	}
	appID, err := ctx.Ledger.CurrentApplicationID()
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Ledger.AppGlobalDel(appID, key); err != nil {
		return &LedgerError{Err: err}
	}
	ctx.PC++
	return nil
}

func opAssetHoldingGet(ctx *EvalContext) error {
	field := AssetHoldingField(ctx.Program[ctx.PC+1])
	vals, err := ctx.PopN(2)
	if err != nil {
		return err
	}
	addrB, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	assetID, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	addr, err := toAddress(addrB)
	if err != nil {
		return err
	}
	val, exists, err := ctx.Ledger.AssetHolding(addr, assetID, field)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	r := uint64(0)
	if exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opAssetParamsGet(ctx *EvalContext) error {
	field := AssetParamsField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	assetID, err := v.AsUint64()
	if err != nil {
		return err
	}
	val, exists, err := ctx.Ledger.AssetParams(assetID, field)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	r := uint64(0)
	if exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opAppParamsGet(ctx *EvalContext) error {
	field := AppParamsField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	appID, err := v.AsUint64()
	if err != nil {
		return err
	}
	val, exists, err := ctx.Ledger.AppParams(appID, field)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	r := uint64(0)
	if exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opAcctParamsGet(ctx *EvalContext) error {
	field := AcctParamsField(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := v.AsBytes()
	if err != nil {
		return err
	}
	addr, err := toAddress(b)
	if err != nil {
		return err
	}
	val, exists, err := ctx.Ledger.AccountParams(addr, field)
	if err != nil {
		return &LedgerError{Err: err}
	}
	if err := ctx.Push(val); err != nil {
		return err
	}
	r := uint64(0)
	if exists {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}
