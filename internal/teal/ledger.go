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

// Address is a 32-byte account identifier (an Ed25519-style public key
// address, as opposed to the 20-byte addresses used by account-model
// chains derived from secp256k1 keys).
type Address [32]byte

// TxnField enumerates the transaction fields `txn`/`gtxn`/`itxn` family
// opcodes can read. The set below covers the fields exercised by this
// repository's handlers and tests; a production ledger may recognize more.
type TxnField int

const (
	TxnSender TxnField = iota
	TxnFee
	TxnFirstValid
	TxnLastValid
	TxnNote
	TxnReceiver
	TxnAmount
	TxnCloseRemainderTo
	TxnTypeEnum
	TxnGroupIndex
	TxnApplicationID
	TxnApplicationArgs // array field
	TxnNumAppArgs
	TxnAccounts // array field
	TxnNumAccounts
	TxnAssetID
	TxnAssetAmount
	TxnAssetReceiver
	TxnApplicationIDAt // itxn created application id
)

// GlobalField enumerates the fields the `global` opcode can read.
type GlobalField int

const (
	GlobalMinTxnFee GlobalField = iota
	GlobalMinBalance
	GlobalMaxTxnLife
	GlobalZeroAddress
	GlobalGroupSize
	GlobalLogicSigVersion
	GlobalRound
	GlobalLatestTimestamp
	GlobalCurrentApplicationID
	GlobalCreatorAddress
	GlobalCurrentApplicationAddress
	GlobalGroupID
	GlobalOpcodeBudget
	GlobalCallerApplicationID
	GlobalCallerApplicationAddress
)

// AssetHoldingField enumerates fields readable via asset_holding_get.
type AssetHoldingField int

const (
	AssetHoldingBalance AssetHoldingField = iota
	AssetHoldingFrozen
)

// AssetParamsField enumerates fields readable via asset_params_get.
type AssetParamsField int

const (
	AssetParamTotal AssetParamsField = iota
	AssetParamDecimals
	AssetParamDefaultFrozen
	AssetParamUnitName
	AssetParamName
	AssetParamURL
	AssetParamCreator
)

// AppParamsField enumerates fields readable via app_params_get.
type AppParamsField int

const (
	AppParamApprovalProgram AppParamsField = iota
	AppParamClearStateProgram
	AppParamGlobalNumUint
	AppParamGlobalNumByteSlice
	AppParamCreator
	AppParamAddress
)

// AcctParamsField enumerates fields readable via acct_params_get.
type AcctParamsField int

const (
	AcctParamBalance AcctParamsField = iota
	AcctParamMinBalance
	AcctParamAuthAddr
	AcctParamTotalAppsOptedIn
)

// LedgerView is the host-supplied read/write surface the engine consumes.
// The interpreter borrows one LedgerView for the duration of a single
// Execute call and never retains it afterward; every mutation the engine
// performs is routed through this interface, and durability is entirely the
// collaborator's decision (see spec.md §3 "Ownership").
//
// Implementations must be safe to use from exactly one goroutine at a time
// — concurrent Execute calls must each receive their own LedgerView, per
// the Reentrancy rules in spec.md §5.
type LedgerView interface {
	Balance(addr Address) (uint64, error)
	MinBalance(addr Address) (uint64, error)

	AppGlobalGet(appID uint64, key []byte) (val Value, exists bool, err error)
	AppGlobalPut(appID uint64, key []byte, val Value) error
	AppGlobalDel(appID uint64, key []byte) error

	AppLocalGet(addr Address, appID uint64, key []byte) (val Value, exists bool, err error)
	AppLocalPut(addr Address, appID uint64, key []byte, val Value) error
	AppLocalDel(addr Address, appID uint64, key []byte) error

	AppOptedIn(addr Address, appID uint64) (bool, error)

	AssetHolding(addr Address, assetID uint64, field AssetHoldingField) (val Value, exists bool, err error)
	AssetParams(assetID uint64, field AssetParamsField) (val Value, exists bool, err error)
	AppParams(appID uint64, field AppParamsField) (val Value, exists bool, err error)
	AccountParams(addr Address, field AcctParamsField) (val Value, exists bool, err error)

	CurrentRound() (uint64, error)
	LatestTimestamp() (uint64, error)
	CurrentApplicationID() (uint64, error)
	CurrentApplicationAddress() (Address, error)
	CallerApplicationID() (uint64, error)
	CallerApplicationAddress() (Address, error)

	GroupID() ([32]byte, error)
	OpcodeBudget() (uint64, error)

	// TxnField reads one field of the transaction at groupIndex within the
	// executing group. arrayIndex is used by the `*a`-suffixed opcode
	// variants (txna, gtxna, ...) and is -1 when the base opcode form is
	// used. Per spec.md §4.5, an array index past the end yields an empty
	// Bytes value, not an error.
	TxnField(groupIndex int, field TxnField, arrayIndex int) (Value, error)
	GlobalField(field GlobalField) (Value, error)

	ProgramArgs() ([][]byte, error)
	TransactionGroupSize() (int, error)

	// Box storage (application mode only).
	BoxGet(name []byte) (content []byte, exists bool, err error)
	BoxPut(name, content []byte) error
	BoxDel(name []byte) (existed bool, err error)
	BoxLen(name []byte) (length int, exists bool, err error)

	// Inner transactions (application mode only). Begin starts a new, empty
	// inner transaction; Field sets one of its fields; Submit executes the
	// pending inner transaction(s) and returns the application ID created
	// by the most recently submitted inner application-create call (0 if
	// none).
	ITxnBegin() error
	ITxnField(field TxnField, val Value) error
	ITxnSubmit() (createdApplicationID uint64, err error)
	ITxnResultField(field TxnField, arrayIndex int) (Value, error)
}
