package errors

import (
	"fmt"
	"strings"
)

// Code identifies an error kind with a stable string usable from script code.
type Code string

const (
	CodeDuplicateModule    Code = "ERR_DUPLICATE_MODULE"
	CodeArgumentCount      Code = "ERR_ARGUMENT_COUNT"
	CodeArgumentType       Code = "ERR_ARGUMENT_TYPE"
	CodeFunctionCall       Code = "ERR_FUNCTION_CALL"
	CodeUnexpected         Code = "ERR_UNEXPECTED"
	CodeUndefinedRuntime   Code = "ERR_UNDEFINED_RUNTIME"
	CodeUnavailable        Code = "ERR_UNAVAILABLE"
	CodeContextDeallocated Code = "ERR_CONTEXT_DEALLOCATED"
)

// Error is the structured error type used throughout the bridge.
type Error struct {
	// Value holds a recovered panic value when the failure was not an error.
	Value   any
	Cause   error
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Code))
	b.WriteByte(']')

	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two bridge errors match when
// their codes are equal, regardless of message or cause.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// CodeOf returns the bridge code of err, or "" if err is not a bridge error.
func CodeOf(err error) Code {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// Convenience constructors for the bridge's error taxonomy.

// DuplicateModule reports a registration collision.
func DuplicateModule(name string) *Error {
	return &Error{
		Code:    CodeDuplicateModule,
		Message: fmt.Sprintf("module %q is already registered", name),
	}
}

// ArgumentCount reports an arity mismatch at argument conversion.
func ArgumentCount(function string, expected, got int) *Error {
	return &Error{
		Code:    CodeArgumentCount,
		Message: fmt.Sprintf("%s expects %d arguments, got %d", function, expected, got),
	}
}

// ArgumentType reports a type mismatch at argument index.
func ArgumentType(function string, index int, expected, actual string) *Error {
	return &Error{
		Code: CodeArgumentType,
		Message: fmt.Sprintf("%s argument %d: expected %s, got %s",
			function, index, expected, actual),
	}
}

// FunctionCall wraps a native failure with the function's name attached, to
// keep error provenance across the boundary.
func FunctionCall(function string, cause error) *Error {
	return &Error{
		Code:    CodeFunctionCall,
		Message: fmt.Sprintf("calling %s failed", function),
		Cause:   cause,
	}
}

// Unexpected wraps a failure that was not an expected, typed error. The
// recovered value is preserved for diagnostics.
func Unexpected(value any) *Error {
	e := &Error{
		Code:    CodeUnexpected,
		Message: fmt.Sprintf("unexpected failure: %v", value),
		Value:   value,
	}
	if err, ok := value.(error); ok {
		e.Cause = err
	}
	return e
}

// UndefinedRuntime reports host-object installation with no attached runtime.
// This is an expected transient state, not a fatal condition.
func UndefinedRuntime() *Error {
	return &Error{
		Code:    CodeUndefinedRuntime,
		Message: "no script runtime is attached",
	}
}

// Unavailable reports a call targeting a module or function that does not
// exist, or one arriving after teardown has begun.
func Unavailable(what string) *Error {
	return &Error{
		Code:    CodeUnavailable,
		Message: fmt.Sprintf("%s is unavailable", what),
	}
}

// ContextDeallocated guards against use of a context whose owning application
// instance has already gone away.
func ContextDeallocated() *Error {
	return &Error{
		Code:    CodeContextDeallocated,
		Message: "the app context has been deallocated",
	}
}
