package module

import (
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wippyai/js-bridge/errors"
)

func TestConvertArgs_Arity(t *testing.T) {
	types := []ArgType{Int, String}

	for _, args := range [][]any{{}, {int64(1)}, {int64(1), "a", "b"}} {
		_, err := ConvertArgs("f", types, args)
		if errors.CodeOf(err) != errors.CodeArgumentCount {
			t.Errorf("args %v: expected ERR_ARGUMENT_COUNT, got %v", args, err)
		}
	}

	if _, err := ConvertArgs("f", nil, nil); err != nil {
		t.Errorf("zero-arity call with no args should succeed, got %v", err)
	}
}

func TestConvertArgs_TypeMismatchNamesIndex(t *testing.T) {
	types := []ArgType{String, Int, Bool}

	_, err := ConvertArgs("f", types, []any{"ok", "not a number", true})

	var bridgeErr *errors.Error
	if !stderrors.As(err, &bridgeErr) || bridgeErr.Code != errors.CodeArgumentType {
		t.Fatalf("expected ERR_ARGUMENT_TYPE, got %v", err)
	}
	for _, want := range []string{"argument 1", "Int", "String"} {
		if !strings.Contains(bridgeErr.Message, want) {
			t.Errorf("message %q missing %q", bridgeErr.Message, want)
		}
	}
}

func TestConvertArgs_CanonicalTypes(t *testing.T) {
	types := []ArgType{Bool, Int, Float, String, List, Map, Any}
	args := []any{
		true,
		float64(42), // JS number
		int32(7),
		"hello",
		[]any{1.0, "two"},
		map[string]any{"k": "v"},
		nil,
	}

	got, err := ConvertArgs("f", types, args)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := []any{
		true,
		int64(42),
		float64(7),
		"hello",
		[]any{1.0, "two"},
		map[string]any{"k": "v"},
		nil,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("converted tuple = %#v, want %#v", got, want)
	}
}

func TestConvertArgs_IntRejectsFractional(t *testing.T) {
	_, err := ConvertArgs("f", []ArgType{Int}, []any{3.5})
	if errors.CodeOf(err) != errors.CodeArgumentType {
		t.Errorf("fractional float into Int should fail, got %v", err)
	}
}

func TestConvertArgs_NullRejectedByTypedArgs(t *testing.T) {
	for _, typ := range []ArgType{Bool, Int, Float, String, List, Map} {
		_, err := ConvertArgs("f", []ArgType{typ}, []any{nil})
		if errors.CodeOf(err) != errors.CodeArgumentType {
			t.Errorf("%s should reject null, got %v", typ, err)
		}
	}
}

func TestConvertArgs_Deterministic(t *testing.T) {
	types := []ArgType{Int, String}
	args := []any{float64(21), "x"}

	first, err1 := ConvertArgs("f", types, args)
	second, err2 := ConvertArgs("f", types, args)

	if err1 != nil || err2 != nil {
		t.Fatalf("convert: %v / %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("conversion is not deterministic: %#v vs %#v", first, second)
	}
}
