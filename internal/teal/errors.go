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

import (
	"errors"
	"fmt"
)

// ErrKind classifies every error the engine can raise. Every error value
// returned from this package implements kindedError, so callers can recover
// the kind with KindOf without a type switch over every concrete error type.
type ErrKind int

const (
	KindStackUnderflow ErrKind = iota
	KindStackOverflow
	KindTypeError
	KindInvalidOpcode
	KindProgramCounterOutOfBounds
	KindCostBudgetExceeded
	KindDivisionByZero
	KindIntegerOverflow
	KindIntegerUnderflow
	KindInvalidBranchTarget
	KindCallStackOverflow
	KindCallStackUnderflow
	KindScratchIndexOutOfBounds
	KindInvalidByteArrayLength
	KindInvalidTransactionField
	KindInvalidGlobalField
	KindLedgerError
	KindCryptoError
	KindInvalidProgram
	KindExecutionHalted
	KindUnsupportedVersion
	KindOpcodeNotAvailable
	KindAssemblyError
	KindParseError
)

var kindNames = [...]string{
	KindStackUnderflow:            "StackUnderflow",
	KindStackOverflow:             "StackOverflow",
	KindTypeError:                 "TypeError",
	KindInvalidOpcode:             "InvalidOpcode",
	KindProgramCounterOutOfBounds: "ProgramCounterOutOfBounds",
	KindCostBudgetExceeded:        "CostBudgetExceeded",
	KindDivisionByZero:            "DivisionByZero",
	KindIntegerOverflow:           "IntegerOverflow",
	KindIntegerUnderflow:          "IntegerUnderflow",
	KindInvalidBranchTarget:       "InvalidBranchTarget",
	KindCallStackOverflow:         "CallStackOverflow",
	KindCallStackUnderflow:        "CallStackUnderflow",
	KindScratchIndexOutOfBounds:   "ScratchIndexOutOfBounds",
	KindInvalidByteArrayLength:    "InvalidByteArrayLength",
	KindInvalidTransactionField:   "InvalidTransactionField",
	KindInvalidGlobalField:        "InvalidGlobalField",
	KindLedgerError:               "LedgerError",
	KindCryptoError:               "CryptoError",
	KindInvalidProgram:            "InvalidProgram",
	KindExecutionHalted:           "ExecutionHalted",
	KindUnsupportedVersion:        "UnsupportedVersion",
	KindOpcodeNotAvailable:        "OpcodeNotAvailable",
	KindAssemblyError:             "AssemblyError",
	KindParseError:                "ParseError",
}

func (k ErrKind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// kindedError is implemented by every error type in this package.
type kindedError interface {
	error
	Kind() ErrKind
}

// KindOf recovers the ErrKind carried by err, unwrapping through errors.As.
// ok is false if err (or anything it wraps) was not produced by this
// package.
func KindOf(err error) (kind ErrKind, ok bool) {
	var ke kindedError
	if errors.As(err, &ke) {
		return ke.Kind(), true
	}
	return 0, false
}

// ---- Simple, fieldless sentinels -------------------------------------------

type simpleError struct {
	kind ErrKind
	msg  string
}

func (e *simpleError) Error() string { return e.msg }
func (e *simpleError) Kind() ErrKind { return e.kind }

var (
	// ErrDivisionByZero is raised by `/` and `%` when the divisor is zero.
	ErrDivisionByZero error = &simpleError{KindDivisionByZero, "teal: division by zero"}
	// ErrIntegerOverflow is raised by `+`, `*`, and related ops on wraparound.
	ErrIntegerOverflow error = &simpleError{KindIntegerOverflow, "teal: integer overflow"}
	// ErrIntegerUnderflow is raised by `-` when the result would be negative.
	ErrIntegerUnderflow error = &simpleError{KindIntegerUnderflow, "teal: integer underflow"}
	// ErrCallStackUnderflow is raised by retsub with no matching callsub.
	ErrCallStackUnderflow error = &simpleError{KindCallStackUnderflow, "teal: call stack underflow"}
	// ErrBoxNotFound is raised by box_extract/box_replace against a box
	// that does not exist.
	ErrBoxNotFound error = &simpleError{KindLedgerError, "teal: box not found"}
)

// ---- Field-carrying error types --------------------------------------------

// StackUnderflowError is raised when an opcode needs more operands than the
// stack currently holds.
type StackUnderflowError struct {
	Required int
	Have     int
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("teal: stack underflow: need %d value(s), have %d", e.Required, e.Have)
}
func (e *StackUnderflowError) Kind() ErrKind { return KindStackUnderflow }

// StackOverflowError is raised when a push would grow the stack past Limit.
type StackOverflowError struct {
	Limit int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("teal: stack overflow: limit is %d", e.Limit)
}
func (e *StackOverflowError) Kind() ErrKind { return KindStackOverflow }

// TypeMismatchError is raised when a Value coercion targets the wrong
// variant.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("teal: type error: expected %s, got %s", e.Expected, e.Actual)
}
func (e *TypeMismatchError) Kind() ErrKind { return KindTypeError }

// InvalidOpcodeError is raised when the fetched byte has no table entry.
type InvalidOpcodeError struct {
	Opcode byte
	PC     int
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("teal: invalid opcode 0x%02x at pc=%d", e.Opcode, e.PC)
}
func (e *InvalidOpcodeError) Kind() ErrKind { return KindInvalidOpcode }

// ProgramCounterOutOfBoundsError is raised when pc strays outside
// [0, len(program)].
type ProgramCounterOutOfBoundsError struct {
	PC  int
	Len int
}

func (e *ProgramCounterOutOfBoundsError) Error() string {
	return fmt.Sprintf("teal: pc %d out of bounds (program length %d)", e.PC, e.Len)
}
func (e *ProgramCounterOutOfBoundsError) Kind() ErrKind { return KindProgramCounterOutOfBounds }

// CostBudgetExceededError is raised when cumulative cost would exceed
// Budget.
type CostBudgetExceededError struct {
	Cost   uint64
	Budget uint64
}

func (e *CostBudgetExceededError) Error() string {
	return fmt.Sprintf("teal: cost budget exceeded: cost=%d budget=%d", e.Cost, e.Budget)
}
func (e *CostBudgetExceededError) Kind() ErrKind { return KindCostBudgetExceeded }

// InvalidBranchTargetError is raised when a computed branch target falls
// outside the program.
type InvalidBranchTargetError struct {
	Target int
	Len    int
}

func (e *InvalidBranchTargetError) Error() string {
	return fmt.Sprintf("teal: branch target %d out of range (program length %d)", e.Target, e.Len)
}
func (e *InvalidBranchTargetError) Kind() ErrKind { return KindInvalidBranchTarget }

// CallStackOverflowError is raised when callsub would exceed the call
// depth limit.
type CallStackOverflowError struct {
	Limit int
}

func (e *CallStackOverflowError) Error() string {
	return fmt.Sprintf("teal: call stack overflow: limit is %d", e.Limit)
}
func (e *CallStackOverflowError) Kind() ErrKind { return KindCallStackOverflow }

// ScratchIndexOutOfBoundsError is raised by frame_dig/frame_bury when the
// addressed frame slot lies outside the current stack.
type ScratchIndexOutOfBoundsError struct {
	Index int
}

func (e *ScratchIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("teal: scratch index %d out of bounds", e.Index)
}
func (e *ScratchIndexOutOfBoundsError) Kind() ErrKind { return KindScratchIndexOutOfBounds }

// InvalidByteArrayLengthError is raised by byte ops on out-of-range slicing
// or oversized byte-math operands.
type InvalidByteArrayLengthError struct {
	Detail string
}

func (e *InvalidByteArrayLengthError) Error() string {
	return "teal: invalid byte array length: " + e.Detail
}
func (e *InvalidByteArrayLengthError) Kind() ErrKind { return KindInvalidByteArrayLength }

// InvalidTransactionFieldError is raised by the gtxn family opcodes on an
// out-of-range group index. An unknown field id is reported by the ledger
// and surfaces as a LedgerError.
type InvalidTransactionFieldError struct {
	Detail string
}

func (e *InvalidTransactionFieldError) Error() string {
	return "teal: invalid transaction field: " + e.Detail
}
func (e *InvalidTransactionFieldError) Kind() ErrKind { return KindInvalidTransactionField }

// InvalidGlobalFieldError reports an invalid global field. The `global`
// opcode does not raise it: an unknown field id is reported by the ledger
// and surfaces as a LedgerError.
type InvalidGlobalFieldError struct {
	Detail string
}

func (e *InvalidGlobalFieldError) Error() string {
	return "teal: invalid global field: " + e.Detail
}
func (e *InvalidGlobalFieldError) Kind() ErrKind { return KindInvalidGlobalField }

// LedgerError wraps an error surfaced by the LedgerView collaborator.
type LedgerError struct {
	Err error
}

func (e *LedgerError) Error() string { return "teal: ledger error: " + e.Err.Error() }
func (e *LedgerError) Kind() ErrKind { return KindLedgerError }
func (e *LedgerError) Unwrap() error { return e.Err }

// CryptoError wraps an error surfaced by the CryptoProvider collaborator.
type CryptoError struct {
	Err error
}

func (e *CryptoError) Error() string { return "teal: crypto error: " + e.Err.Error() }
func (e *CryptoError) Kind() ErrKind { return KindCryptoError }
func (e *CryptoError) Unwrap() error { return e.Err }

// InvalidProgramError is raised for structural program defects detected at
// run time: final stack shape, out-of-range constant index, wrong
// execution mode, and similar.
type InvalidProgramError struct {
	Detail string
}

func (e *InvalidProgramError) Error() string { return "teal: invalid program: " + e.Detail }
func (e *InvalidProgramError) Kind() ErrKind { return KindInvalidProgram }

// ExecutionHaltedError is raised by `err` and by a failed `assert`.
type ExecutionHaltedError struct {
	Reason string
}

func (e *ExecutionHaltedError) Error() string { return "teal: execution halted: " + e.Reason }
func (e *ExecutionHaltedError) Kind() ErrKind { return KindExecutionHalted }

// UnsupportedVersionError is raised when Config.Version exceeds what this
// build of the engine knows how to execute.
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("teal: unsupported version %d", e.Version)
}
func (e *UnsupportedVersionError) Kind() ErrKind { return KindUnsupportedVersion }

// OpcodeNotAvailableError is raised when an opcode's MinVersion exceeds the
// program's declared version.
type OpcodeNotAvailableError struct {
	Version uint8
	Op      string
}

func (e *OpcodeNotAvailableError) Error() string {
	return fmt.Sprintf("teal: opcode %s not available at version %d", e.Op, e.Version)
}
func (e *OpcodeNotAvailableError) Kind() ErrKind { return KindOpcodeNotAvailable }

// AssemblyError is raised by the assembler, carrying the offending source
// line for diagnostics.
type AssemblyError struct {
	Line   int
	Detail string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("teal: assembly error at line %d: %s", e.Line, e.Detail)
}
func (e *AssemblyError) Kind() ErrKind { return KindAssemblyError }

// ParseError is raised by the varuint/constant-block decoders on malformed
// input.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string { return "teal: parse error: " + e.Detail }
func (e *ParseError) Kind() ErrKind { return KindParseError }
