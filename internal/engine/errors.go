package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/tradeledger/internal/program"
)

// RuntimeError is a call failure detected by the host rather than the
// program: a post-call guard tripped or the account list was malformed.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Account is the base58 key of the offending account, if any.
	Account string
}

// RuntimeErrorCode categorizes runtime errors. Values share the call log's
// error_code column with program.ErrorCode.
type RuntimeErrorCode string

const (
	// ErrCodeReadonlyDataModified: the program changed an account passed
	// read-only.
	ErrCodeReadonlyDataModified RuntimeErrorCode = "ReadonlyDataModified"

	// ErrCodeExternalAccountDataModified: the program changed an account it
	// does not own.
	ErrCodeExternalAccountDataModified RuntimeErrorCode = "ExternalAccountDataModified"

	// ErrCodeAccountDataSizeChanged: an account buffer was resized.
	ErrCodeAccountDataSizeChanged RuntimeErrorCode = "AccountDataSizeChanged"

	// ErrCodeDuplicateAccount: the same key appeared twice in one call.
	ErrCodeDuplicateAccount RuntimeErrorCode = "DuplicateAccount"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Account != "" {
		return fmt.Sprintf("%s: %s (account=%s)", e.Code, e.Message, e.Account)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuntimeError reports whether err is a host-side failure with the given
// code. Uses errors.As to handle wrapped errors.
func IsRuntimeError(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// ErrorCode returns the call-log code for a failed call: the program's error
// code, or the runtime's. Empty for nil and foreign errors.
func ErrorCode(err error) string {
	if code := program.CodeOf(err); code != "" {
		return string(code)
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return ""
}
