// Package errors defines the structured error taxonomy of the merge pipeline.
//
// Every failure that reaches a caller is an *AppError carrying one of the
// Code* constants. Parse and internal errors also carry a stack trace so the
// orchestrator can render a diagnostic "Detail" block.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Predefined error codes
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeParseError      = "PARSE_ERROR"
	CodeStylingError    = "STYLING_ERROR"
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// underlying AppError when there is one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain,
// or CodeInternalError when there is none.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// Common error constructors

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

// ParseError records a malformed input. The cause is annotated with the
// current stack unless it already carries one.
func ParseError(cause error, message string) *AppError {
	return &AppError{
		Code:    CodeParseError,
		Message: message,
		Cause:   withStack(cause),
	}
}

func StylingError(cause error) *AppError {
	return &AppError{
		Code:    CodeStylingError,
		Message: "formatting failed",
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// InternalError builds an error for an unexpected failure, typically a
// recovered panic, with the captured goroutine stack as its cause.
func InternalError(message string, stack []byte) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   &panicTrace{stack: string(stack)},
	}
}

// =============================================================================
// DIAGNOSTIC DETAIL
// =============================================================================

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

type panicTrace struct{ stack string }

func (p *panicTrace) Error() string { return "panic" }

func withStack(err error) error {
	if err == nil {
		return pkgerrors.New("unknown parse failure")
	}
	var st stackTracer
	if stderrors.As(err, &st) {
		return err
	}
	return pkgerrors.WithStack(err)
}

// Detail renders the diagnostic trace of err: the message chain followed by
// the deepest recorded stack (pkg/errors frames or a recovered goroutine dump).
func Detail(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	var trace string
	depth := 0
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		switch v := e.(type) {
		case *AppError:
			fmt.Fprintf(&b, "%s[%s] %s\n", strings.Repeat("  ", depth), v.Code, v.Message)
			depth++
		case *panicTrace:
			trace = v.stack
		case stackTracer:
			trace = strings.TrimLeft(fmt.Sprintf("%+v", v.StackTrace()), "\n")
		default:
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), e.Error())
			depth++
		}
	}

	if trace != "" {
		b.WriteString("\n")
		b.WriteString(trace)
	}
	return strings.TrimRight(b.String(), "\n")
}
