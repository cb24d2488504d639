package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := ArgumentType("fetch", 0, "String", "Number")

	msg := err.Error()
	if !strings.Contains(msg, "ERR_ARGUMENT_TYPE") {
		t.Errorf("message missing code: %s", msg)
	}
	if !strings.Contains(msg, "argument 0") {
		t.Errorf("message missing index: %s", msg)
	}
	if !strings.Contains(msg, "String") || !strings.Contains(msg, "Number") {
		t.Errorf("message missing expected/actual types: %s", msg)
	}
}

func TestError_CauseChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := FunctionCall("fetch", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("message should include cause: %s", err.Error())
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := Unavailable("module Net")
	b := Unavailable("function fetch")

	if !stderrors.Is(a, b) {
		t.Error("two unavailable errors should match by code")
	}
	if stderrors.Is(a, DuplicateModule("Net")) {
		t.Error("different codes should not match")
	}
}

func TestError_As(t *testing.T) {
	var bridgeErr *Error
	err := DuplicateModule("Device")

	if !stderrors.As(err, &bridgeErr) {
		t.Fatal("errors.As should extract *Error")
	}
	if bridgeErr.Code != CodeDuplicateModule {
		t.Errorf("code = %s, want %s", bridgeErr.Code, CodeDuplicateModule)
	}
}

func TestUnexpected_PreservesValue(t *testing.T) {
	err := Unexpected("boom")
	if err.Value != "boom" {
		t.Errorf("value = %v, want boom", err.Value)
	}
	if err.Cause != nil {
		t.Error("non-error value should not set cause")
	}

	cause := stderrors.New("boom")
	err = Unexpected(cause)
	if err.Cause != cause {
		t.Error("error value should become the cause")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(UndefinedRuntime()) != CodeUndefinedRuntime {
		t.Error("CodeOf should return the bridge code")
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("CodeOf of a plain error should be empty")
	}
}
