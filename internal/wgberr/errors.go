// Package wgberr defines the stable error taxonomy used across wgb.
// Every user-facing failure maps to one short code with a catalog message
// and a distinct process exit code, so scripts can branch on either.
package wgberr

import (
	"errors"
	"fmt"
)

// Code is a short, stable error code.
type Code string

// Error codes. The set is append-only; codes are part of the CLI contract.
const (
	CodeInternal             Code = "Internal"
	CodeInvalidPath          Code = "InvalidPath"
	CodeDuplicatePath        Code = "DuplicatePath"
	CodePathNotFound         Code = "PathNotFound"
	CodeCorruptState         Code = "CorruptState"
	CodePersistFailed        Code = "PersistFailed"
	CodeAlreadyInProgress    Code = "AlreadyInProgress"
	CodeAuthFailed           Code = "AuthFailed"
	CodeTunnelBringUpFailed  Code = "TunnelBringUpFailed"
	CodeTunnelTearDownFailed Code = "TunnelTearDownFailed"
	CodeAmbiguousTarget      Code = "AmbiguousTarget"
	CodeConfigNotFound       Code = "ConfigNotFound"
)

// Error is the base error type for wgb failures.
// It supports errors.Is matching by code and errors.As extraction.
type Error struct {
	Code    Code
	Message string // short context, may be empty
	Err     error  // wrapped cause, may be nil
}

// Error returns the formatted error string.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return string(e.Code)
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is supports errors.Is matching by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidPath          = &Error{Code: CodeInvalidPath}
	ErrDuplicatePath        = &Error{Code: CodeDuplicatePath}
	ErrPathNotFound         = &Error{Code: CodePathNotFound}
	ErrCorruptState         = &Error{Code: CodeCorruptState}
	ErrPersistFailed        = &Error{Code: CodePersistFailed}
	ErrAlreadyInProgress    = &Error{Code: CodeAlreadyInProgress}
	ErrAuthFailed           = &Error{Code: CodeAuthFailed}
	ErrTunnelBringUpFailed  = &Error{Code: CodeTunnelBringUpFailed}
	ErrTunnelTearDownFailed = &Error{Code: CodeTunnelTearDownFailed}
	ErrAmbiguousTarget      = &Error{Code: CodeAmbiguousTarget}
	ErrConfigNotFound       = &Error{Code: CodeConfigNotFound}
)

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping a cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from an error chain.
// Unknown errors map to CodeInternal rather than leaking raw diagnostics.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// exitCodes maps each code to its process exit status.
var exitCodes = map[Code]int{
	CodeInternal:             1,
	CodeInvalidPath:          2,
	CodeDuplicatePath:        3,
	CodePathNotFound:         4,
	CodeCorruptState:         5,
	CodePersistFailed:        6,
	CodeAlreadyInProgress:    7,
	CodeAuthFailed:           8,
	CodeTunnelBringUpFailed:  9,
	CodeTunnelTearDownFailed: 10,
	CodeAmbiguousTarget:      11,
	CodeConfigNotFound:       12,
}

// ExitCode returns the process exit status for a code.
func ExitCode(code Code) int {
	if n, ok := exitCodes[code]; ok {
		return n
	}
	return 1
}

// DefaultCatalog returns the built-in error catalog mapping codes to
// user-facing messages. The persisted state carries its own copy which
// takes precedence on lookup.
func DefaultCatalog() map[string]string {
	return map[string]string{
		string(CodeInternal):             "internal error",
		string(CodeInvalidPath):          "path does not exist or is not readable",
		string(CodeDuplicatePath):        "search path is already registered",
		string(CodePathNotFound):         "search path is not registered",
		string(CodeCorruptState):         "state file exists but cannot be parsed",
		string(CodePersistFailed):        "failed to write state file",
		string(CodeAlreadyInProgress):    "another operation on this configuration is in progress",
		string(CodeAuthFailed):           "two-factor authentication failed",
		string(CodeTunnelBringUpFailed):  "tunnel bring-up command failed",
		string(CodeTunnelTearDownFailed): "tunnel tear-down command failed",
		string(CodeAmbiguousTarget):      "multiple configurations known, specify one",
		string(CodeConfigNotFound):       "no matching configuration found",
	}
}
