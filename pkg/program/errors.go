package program

import (
	"errors"
)

// Code is a stable identifier for a program failure. Callers branch on the
// code, never on the message.
type Code string

const (
	CodeWrongOwnerProgram    Code = "WrongOwnerProgram"
	CodeBadStorageSize       Code = "BadStorageSize"
	CodeAlreadyInitialized   Code = "AlreadyInitialized"
	CodeNotRentExempt        Code = "NotRentExempt"
	CodeInsufficientFunds    Code = "InsufficientFunds"
	CodeMalformedRecord      Code = "MalformedRecord"
	CodeNotEnoughAccountKeys Code = "NotEnoughAccountKeys"
	CodeInvalidArgument      Code = "InvalidArgument"
	CodeInvalidRentSysvar    Code = "InvalidRentSysvar"
	CodeArithmeticOverflow   Code = "ArithmeticOverflow"
)

// Error is a typed program failure. Every precondition failure is detected
// before any slot is mutated.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so wrapped failures compare
// equal to the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Errors
var (
	ErrWrongOwnerProgram    = &Error{Code: CodeWrongOwnerProgram, Message: "listing account is not owned by this program"}
	ErrBadStorageSize       = &Error{Code: CodeBadStorageSize, Message: "listing account has the wrong data size"}
	ErrAlreadyInitialized   = &Error{Code: CodeAlreadyInitialized, Message: "listing account is already initialized"}
	ErrNotRentExempt        = &Error{Code: CodeNotRentExempt, Message: "listing account is not rent exempt"}
	ErrInsufficientFunds    = &Error{Code: CodeInsufficientFunds, Message: "payer cannot cover the rent-exempt minimum"}
	ErrMalformedRecord      = &Error{Code: CodeMalformedRecord, Message: "listing account data is malformed"}
	ErrNotEnoughAccountKeys = &Error{Code: CodeNotEnoughAccountKeys, Message: "not enough account keys"}
	ErrInvalidArgument      = &Error{Code: CodeInvalidArgument, Message: "invalid listing argument"}
	ErrInvalidRentSysvar    = &Error{Code: CodeInvalidRentSysvar, Message: "invalid rent sysvar account"}
	ErrArithmeticOverflow   = &Error{Code: CodeArithmeticOverflow, Message: "balance arithmetic overflow"}
)

func wrap(sentinel *Error, cause error) error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Cause: cause}
}

// CodeOf returns the program code carried by err, or "" if err is not a
// program error.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
