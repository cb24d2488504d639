// Package errors provides the structured error types that cross the
// native/script boundary.
//
// Every error carries a stable string Code, a human-readable Message, and the
// original native error (or recovered panic value) as its Cause. Errors are
// total and structured: nothing escapes the bridge as an unrecognized failure.
//
// Use the convenience constructors for the bridge's error taxonomy:
//
//	err := errors.ArgumentType("fetch", 0, "String", "Number")
//	err := errors.FunctionCall("fetch", cause)
//
// All errors implement the standard error interface and support errors.Is
// (matching by code) and errors.As.
package errors
