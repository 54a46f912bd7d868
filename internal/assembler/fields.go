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

// These name tables are the assembler/disassembler's only knowledge of the
// teal field enums' iota ordering; they must track internal/teal/ledger.go
// and internal/teal/crypto.go exactly.

var txnFieldNames = []string{
	"Sender", "Fee", "FirstValid", "LastValid", "Note", "Receiver", "Amount",
	"CloseRemainderTo", "TypeEnum", "GroupIndex", "ApplicationID",
	"ApplicationArgs", "NumAppArgs", "Accounts", "NumAccounts", "AssetID",
	"AssetAmount", "AssetReceiver", "ApplicationIDAt",
}

var globalFieldNames = []string{
	"MinTxnFee", "MinBalance", "MaxTxnLife", "ZeroAddress", "GroupSize",
	"LogicSigVersion", "Round", "LatestTimestamp", "CurrentApplicationID",
	"CreatorAddress", "CurrentApplicationAddress", "GroupID", "OpcodeBudget",
	"CallerApplicationID", "CallerApplicationAddress",
}

var assetHoldingFieldNames = []string{"AssetBalance", "AssetFrozen"}

var assetParamsFieldNames = []string{
	"AssetTotal", "AssetDecimals", "AssetDefaultFrozen", "AssetUnitName",
	"AssetName", "AssetURL", "AssetCreator",
}

var appParamsFieldNames = []string{
	"AppApprovalProgram", "AppClearStateProgram", "AppGlobalNumUint",
	"AppGlobalNumByteSlice", "AppCreator", "AppAddress",
}

var acctParamsFieldNames = []string{
	"AcctBalance", "AcctMinBalance", "AcctAuthAddr", "AcctTotalAppsOptedIn",
}

var ecdsaCurveNames = []string{"Secp256k1", "Secp256r1"}

var vrfVariantNames = []string{"VrfAlgorand"}

var mimcConfigNames = []string{"BN254Mp110", "BLS12381Mp110"}

func indexOf(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}
