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

// Package tealledger is a reference, in-memory teal.LedgerView: every piece
// of state it serves lives in plain Go maps, rebuilt fresh per run. It
// exists for the CLI's standalone execute command and for tests;
// a production host supplies its own LedgerView backed by durable storage.
package tealledger

import (
	"errors"

	"github.com/probelang/tealvm/internal/teal"
)

type appKey struct {
	app uint64
	key string
}

type localKey struct {
	addr teal.Address
	app  uint64
	key  string
}

// Snapshot is the full state an in-memory Ledger starts from: account
// balances, application global/local state, asset holdings/params,
// application params, and the executing transaction group. Fields left nil
// behave as empty.
type Snapshot struct {
	Balances      map[teal.Address]uint64
	MinBalances   map[teal.Address]uint64
	GlobalState   map[appKeyInput]teal.Value
	LocalState    map[localKeyInput]teal.Value
	OptedIn       map[localKeyInput]bool
	AssetHoldings map[assetHoldingInput]teal.Value
	AssetParams   map[assetParamInput]teal.Value
	AppParams     map[appParamInput]teal.Value
	AcctParams    map[acctParamInput]teal.Value

	Round             uint64
	LatestTimestamp   uint64
	CurrentApp        uint64
	CurrentAppAddr    teal.Address
	CallerApp         uint64
	CallerAppAddr     teal.Address
	GroupIDValue      [32]byte
	OpcodeBudgetValue uint64
	Args              [][]byte
	Group             []Transaction
	GlobalFields      map[teal.GlobalField]teal.Value
}

// appKeyInput, localKeyInput, and friends mirror the opcode parameters so
// callers can populate a Snapshot with literal composite keys.
type appKeyInput = appKey
type localKeyInput = localKey

type assetHoldingInput struct {
	Addr    teal.Address
	AssetID uint64
	Field   teal.AssetHoldingField
}

type assetParamInput struct {
	AssetID uint64
	Field   teal.AssetParamsField
}

type appParamInput struct {
	AppID uint64
	Field teal.AppParamsField
}

type acctParamInput struct {
	Addr  teal.Address
	Field teal.AcctParamsField
}

// Transaction is the reference shape of one transaction in the executing
// group, used to answer txn/gtxn field reads.
type Transaction struct {
	Sender           teal.Address
	Fee              uint64
	FirstValid       uint64
	LastValid        uint64
	Note             []byte
	Receiver         teal.Address
	Amount           uint64
	CloseRemainderTo teal.Address
	TypeEnum         uint64
	ApplicationID    uint64
	ApplicationArgs  [][]byte
	Accounts         []teal.Address
	AssetID          uint64
	AssetAmount      uint64
	AssetReceiver    teal.Address
}

// Ledger is the reference in-memory teal.LedgerView implementation.
type Ledger struct {
	snap        Snapshot
	boxes       map[string][]byte
	pendingITxn *Transaction
	lastITxn    *Transaction
	lastAppID   uint64
}

// New builds a Ledger from snap, filling any nil maps with empty ones.
func New(snap Snapshot) *Ledger {
	if snap.GlobalState == nil {
		snap.GlobalState = map[appKeyInput]teal.Value{}
	}
	if snap.LocalState == nil {
		snap.LocalState = map[localKeyInput]teal.Value{}
	}
	if snap.OptedIn == nil {
		snap.OptedIn = map[localKeyInput]bool{}
	}
	if snap.Balances == nil {
		snap.Balances = map[teal.Address]uint64{}
	}
	if snap.MinBalances == nil {
		snap.MinBalances = map[teal.Address]uint64{}
	}
	if snap.AssetHoldings == nil {
		snap.AssetHoldings = map[assetHoldingInput]teal.Value{}
	}
	if snap.AssetParams == nil {
		snap.AssetParams = map[assetParamInput]teal.Value{}
	}
	if snap.AppParams == nil {
		snap.AppParams = map[appParamInput]teal.Value{}
	}
	if snap.AcctParams == nil {
		snap.AcctParams = map[acctParamInput]teal.Value{}
	}
	if snap.GlobalFields == nil {
		snap.GlobalFields = map[teal.GlobalField]teal.Value{}
	}
	return &Ledger{snap: snap, boxes: map[string][]byte{}}
}

var _ teal.LedgerView = (*Ledger)(nil)

func (l *Ledger) Balance(addr teal.Address) (uint64, error) { return l.snap.Balances[addr], nil }

func (l *Ledger) MinBalance(addr teal.Address) (uint64, error) { return l.snap.MinBalances[addr], nil }

func (l *Ledger) AppGlobalGet(appID uint64, key []byte) (teal.Value, bool, error) {
	v, ok := l.snap.GlobalState[appKey{appID, string(key)}]
	return v, ok, nil
}

func (l *Ledger) AppGlobalPut(appID uint64, key []byte, val teal.Value) error {
	l.snap.GlobalState[appKey{appID, string(key)}] = val
	return nil
}

func (l *Ledger) AppGlobalDel(appID uint64, key []byte) error {
	delete(l.snap.GlobalState, appKey{appID, string(key)})
	return nil
}

func (l *Ledger) AppLocalGet(addr teal.Address, appID uint64, key []byte) (teal.Value, bool, error) {
	v, ok := l.snap.LocalState[localKey{addr, appID, string(key)}]
	return v, ok, nil
}

func (l *Ledger) AppLocalPut(addr teal.Address, appID uint64, key []byte, val teal.Value) error {
	l.snap.LocalState[localKey{addr, appID, string(key)}] = val
	return nil
}

func (l *Ledger) AppLocalDel(addr teal.Address, appID uint64, key []byte) error {
	delete(l.snap.LocalState, localKey{addr, appID, string(key)})
	return nil
}

func (l *Ledger) AppOptedIn(addr teal.Address, appID uint64) (bool, error) {
	return l.snap.OptedIn[localKey{addr: addr, app: appID}], nil
}

func (l *Ledger) AssetHolding(addr teal.Address, assetID uint64, field teal.AssetHoldingField) (teal.Value, bool, error) {
	v, ok := l.snap.AssetHoldings[assetHoldingInput{addr, assetID, field}]
	return v, ok, nil
}

func (l *Ledger) AssetParams(assetID uint64, field teal.AssetParamsField) (teal.Value, bool, error) {
	v, ok := l.snap.AssetParams[assetParamInput{assetID, field}]
	return v, ok, nil
}

func (l *Ledger) AppParams(appID uint64, field teal.AppParamsField) (teal.Value, bool, error) {
	v, ok := l.snap.AppParams[appParamInput{appID, field}]
	return v, ok, nil
}

func (l *Ledger) AccountParams(addr teal.Address, field teal.AcctParamsField) (teal.Value, bool, error) {
	v, ok := l.snap.AcctParams[acctParamInput{addr, field}]
	return v, ok, nil
}

func (l *Ledger) CurrentRound() (uint64, error)      { return l.snap.Round, nil }
func (l *Ledger) LatestTimestamp() (uint64, error)   { return l.snap.LatestTimestamp, nil }
func (l *Ledger) CurrentApplicationID() (uint64, error) { return l.snap.CurrentApp, nil }
func (l *Ledger) CurrentApplicationAddress() (teal.Address, error) {
	return l.snap.CurrentAppAddr, nil
}
func (l *Ledger) CallerApplicationID() (uint64, error) { return l.snap.CallerApp, nil }
func (l *Ledger) CallerApplicationAddress() (teal.Address, error) {
	return l.snap.CallerAppAddr, nil
}
func (l *Ledger) GroupID() ([32]byte, error)    { return l.snap.GroupIDValue, nil }
func (l *Ledger) OpcodeBudget() (uint64, error) { return l.snap.OpcodeBudgetValue, nil }

func (l *Ledger) TxnField(groupIndex int, field teal.TxnField, arrayIndex int) (teal.Value, error) {
	if groupIndex < 0 || groupIndex >= len(l.snap.Group) {
		return teal.Value{}, errors.New("tealledger: group index out of range")
	}
	txn := l.snap.Group[groupIndex]
	switch field {
	case teal.TxnSender:
		return teal.BytesValue(txn.Sender[:]), nil
	case teal.TxnFee:
		return teal.Uint64Value(txn.Fee), nil
	case teal.TxnFirstValid:
		return teal.Uint64Value(txn.FirstValid), nil
	case teal.TxnLastValid:
		return teal.Uint64Value(txn.LastValid), nil
	case teal.TxnNote:
		return teal.BytesValue(txn.Note), nil
	case teal.TxnReceiver:
		return teal.BytesValue(txn.Receiver[:]), nil
	case teal.TxnAmount:
		return teal.Uint64Value(txn.Amount), nil
	case teal.TxnCloseRemainderTo:
		return teal.BytesValue(txn.CloseRemainderTo[:]), nil
	case teal.TxnTypeEnum:
		return teal.Uint64Value(txn.TypeEnum), nil
	case teal.TxnGroupIndex:
		return teal.Uint64Value(uint64(groupIndex)), nil
	case teal.TxnApplicationID:
		return teal.Uint64Value(txn.ApplicationID), nil
	case teal.TxnNumAppArgs:
		return teal.Uint64Value(uint64(len(txn.ApplicationArgs))), nil
	case teal.TxnApplicationArgs:
		if arrayIndex < 0 || arrayIndex >= len(txn.ApplicationArgs) {
			return teal.BytesValue(nil), nil
		}
		return teal.BytesValue(txn.ApplicationArgs[arrayIndex]), nil
	case teal.TxnNumAccounts:
		return teal.Uint64Value(uint64(len(txn.Accounts))), nil
	case teal.TxnAccounts:
		if arrayIndex < 0 || arrayIndex >= len(txn.Accounts) {
			return teal.BytesValue(nil), nil
		}
		return teal.BytesValue(txn.Accounts[arrayIndex][:]), nil
	case teal.TxnAssetID:
		return teal.Uint64Value(txn.AssetID), nil
	case teal.TxnAssetAmount:
		return teal.Uint64Value(txn.AssetAmount), nil
	case teal.TxnAssetReceiver:
		return teal.BytesValue(txn.AssetReceiver[:]), nil
	default:
		return teal.Value{}, errors.New("tealledger: unsupported transaction field")
	}
}

func (l *Ledger) GlobalField(field teal.GlobalField) (teal.Value, error) {
	switch field {
	case teal.GlobalGroupSize:
		return teal.Uint64Value(uint64(len(l.snap.Group))), nil
	case teal.GlobalRound:
		return teal.Uint64Value(l.snap.Round), nil
	case teal.GlobalLatestTimestamp:
		return teal.Uint64Value(l.snap.LatestTimestamp), nil
	case teal.GlobalCurrentApplicationID:
		return teal.Uint64Value(l.snap.CurrentApp), nil
	case teal.GlobalCurrentApplicationAddress:
		return teal.BytesValue(l.snap.CurrentAppAddr[:]), nil
	case teal.GlobalCallerApplicationID:
		return teal.Uint64Value(l.snap.CallerApp), nil
	case teal.GlobalCallerApplicationAddress:
		return teal.BytesValue(l.snap.CallerAppAddr[:]), nil
	case teal.GlobalGroupID:
		return teal.BytesValue(l.snap.GroupIDValue[:]), nil
	case teal.GlobalOpcodeBudget:
		return teal.Uint64Value(l.snap.OpcodeBudgetValue), nil
	}
	if v, ok := l.snap.GlobalFields[field]; ok {
		return v, nil
	}
	return teal.Value{}, errors.New("tealledger: unsupported global field")
}

func (l *Ledger) ProgramArgs() ([][]byte, error) { return l.snap.Args, nil }

func (l *Ledger) TransactionGroupSize() (int, error) { return len(l.snap.Group), nil }

func (l *Ledger) BoxGet(name []byte) ([]byte, bool, error) {
	b, ok := l.boxes[string(name)]
	return b, ok, nil
}

func (l *Ledger) BoxPut(name, content []byte) error {
	cp := make([]byte, len(content))
	copy(cp, content)
	l.boxes[string(name)] = cp
	return nil
}

func (l *Ledger) BoxDel(name []byte) (bool, error) {
	_, ok := l.boxes[string(name)]
	delete(l.boxes, string(name))
	return ok, nil
}

func (l *Ledger) BoxLen(name []byte) (int, bool, error) {
	b, ok := l.boxes[string(name)]
	return len(b), ok, nil
}

func (l *Ledger) ITxnBegin() error {
	l.pendingITxn = &Transaction{}
	return nil
}

func (l *Ledger) ITxnField(field teal.TxnField, val teal.Value) error {
	if l.pendingITxn == nil {
		return errors.New("tealledger: itxn_field without itxn_begin")
	}
	switch field {
	case teal.TxnTypeEnum:
		n, err := val.AsUint64()
		if err != nil {
			return err
		}
		l.pendingITxn.TypeEnum = n
	case teal.TxnAmount:
		n, err := val.AsUint64()
		if err != nil {
			return err
		}
		l.pendingITxn.Amount = n
	case teal.TxnReceiver:
		b, err := val.AsBytes()
		if err != nil {
			return err
		}
		copy(l.pendingITxn.Receiver[:], b)
	case teal.TxnFee:
		n, err := val.AsUint64()
		if err != nil {
			return err
		}
		l.pendingITxn.Fee = n
	default:
		return errors.New("tealledger: unsupported inner transaction field")
	}
	return nil
}

func (l *Ledger) ITxnSubmit() (uint64, error) {
	if l.pendingITxn == nil {
		return 0, errors.New("tealledger: itxn_submit without itxn_begin")
	}
	l.lastAppID++
	l.pendingITxn.ApplicationID = l.lastAppID
	l.lastITxn = l.pendingITxn
	l.pendingITxn = nil
	return l.lastAppID, nil
}

func (l *Ledger) ITxnResultField(field teal.TxnField, arrayIndex int) (teal.Value, error) {
	if l.lastITxn == nil {
		return teal.Value{}, errors.New("tealledger: no submitted inner transaction")
	}
	switch field {
	case teal.TxnApplicationID, teal.TxnApplicationIDAt:
		return teal.Uint64Value(l.lastITxn.ApplicationID), nil
	case teal.TxnAmount:
		return teal.Uint64Value(l.lastITxn.Amount), nil
	case teal.TxnReceiver:
		return teal.BytesValue(l.lastITxn.Receiver[:]), nil
	default:
		return teal.Value{}, errors.New("tealledger: unsupported inner transaction result field")
	}
}
