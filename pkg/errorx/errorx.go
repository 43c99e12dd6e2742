// Package errorx defines the business error type used across service and
// handler layers. A CodeError carries a stable business code alongside the
// message so handlers can map failures to API responses without string
// matching, while %w wrapping keeps errors.Is/errors.As working.
package errorx

import (
	"errors"
	"fmt"
)

// CodeError is an error with a business code attached.
type CodeError struct {
	Code  int    // business code, see constants below
	Msg   string // human readable message
	cause error  // wrapped underlying error, may be nil
}

func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without an underlying cause.
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a business code and message to an underlying error.
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), cause: err}
}

// GetCode extracts the business code from an error chain. Non-CodeError
// errors report CodeServerBusy.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business codes. The 11xx range maps one-to-one onto the relationship
// engine's failure taxonomy; the 10xx range covers generic API failures.
const (
	CodeSuccess      = 1000 // success
	CodeInvalidParam = 1001 // malformed or missing input
	CodeServerBusy   = 1005 // unclassified internal failure
	CodeUnauthorized = 1006 // missing/invalid access token
	CodeDBError      = 1010 // database failure
	CodeCacheError   = 1011 // redis failure

	CodeConflict  = 1101 // duplicate request / already friends / race loser
	CodeNotFound  = 1102 // request or friendship does not exist
	CodeExpired   = 1103 // pending request past its TTL
	CodeForbidden = 1104 // actor lacks permission over the target
	CodeDelivery  = 1105 // live push failed; logged only, never returned to callers
)

// Predefined instances for direct returns and errors.Is comparisons.
var (
	ErrInvalidParam = New(CodeInvalidParam, "invalid request parameters")
	ErrServerBusy   = New(CodeServerBusy, "server busy")
)

// IsNotFound reports whether err is a not-found failure, including wrapped
// gorm record-not-found errors.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsConflict reports whether err carries the conflict code.
func IsConflict(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeConflict
}
