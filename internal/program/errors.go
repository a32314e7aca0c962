package program

import (
	"errors"
	"fmt"
)

// ErrorCode identifies why a call was rejected. Values mirror the host's
// program error names so call logs read the same on both sides.
type ErrorCode string

const (
	// ErrCodeInvalidInstructionData: instruction bytes are malformed,
	// truncated, or carry an unknown tag.
	ErrCodeInvalidInstructionData ErrorCode = "InvalidInstructionData"

	// ErrCodeMissingRequiredSignature: account 0 is not a signer.
	ErrCodeMissingRequiredSignature ErrorCode = "MissingRequiredSignature"

	// ErrCodeAccountDataTooSmall: the encoded record does not fit the
	// storage account's buffer.
	ErrCodeAccountDataTooSmall ErrorCode = "AccountDataTooSmall"

	// ErrCodeNotEnoughAccountKeys: fewer accounts than the instruction needs.
	ErrCodeNotEnoughAccountKeys ErrorCode = "NotEnoughAccountKeys"

	// ErrCodeInvalidAccountData: the storage account is not writable.
	ErrCodeInvalidAccountData ErrorCode = "InvalidAccountData"

	// ErrCodeIncorrectProgramID: the storage account is owned by another program.
	ErrCodeIncorrectProgramID ErrorCode = "IncorrectProgramId"
)

// Error is returned for every rejected call.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Code, so callers can write
// errors.Is(err, program.ErrMissingRequiredSignature).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidInstructionData   = &Error{Code: ErrCodeInvalidInstructionData}
	ErrMissingRequiredSignature = &Error{Code: ErrCodeMissingRequiredSignature}
	ErrAccountDataTooSmall      = &Error{Code: ErrCodeAccountDataTooSmall}
	ErrNotEnoughAccountKeys     = &Error{Code: ErrCodeNotEnoughAccountKeys}
	ErrInvalidAccountData       = &Error{Code: ErrCodeInvalidAccountData}
	ErrIncorrectProgramID       = &Error{Code: ErrCodeIncorrectProgramID}
)

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
