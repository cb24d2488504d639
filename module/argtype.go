package module

import (
	"fmt"
	"math"
)

// ArgType declares the expected type of one function argument.
type ArgType uint8

const (
	// Any accepts every value, including null, without conversion.
	Any ArgType = iota
	Bool
	Int
	Float
	String
	List
	Map
)

func (t ArgType) String() string {
	switch t {
	case Any:
		return "Any"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case List:
		return "List"
	case Map:
		return "Map"
	default:
		return fmt.Sprintf("ArgType(%d)", uint8(t))
	}
}

// TypeName describes a call-site value for error messages, using the same
// vocabulary as ArgType where possible.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "Null"
	case bool:
		return "Bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "Int"
	case float32, float64:
		return "Float"
	case string:
		return "String"
	case []any:
		return "List"
	case map[string]any:
		return "Map"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// convert maps a single call-site value onto t. The converted value uses a
// canonical Go type per ArgType: bool, int64, float64, string, []any and
// map[string]any. Returns false when the value is not compatible.
func (t ArgType) convert(v any) (any, bool) {
	switch t {
	case Any:
		return v, true
	case Bool:
		b, ok := v.(bool)
		return b, ok
	case Int:
		return coerceToInt64(v)
	case Float:
		return coerceToFloat64(v)
	case String:
		s, ok := v.(string)
		return s, ok
	case List:
		l, ok := v.([]any)
		return l, ok
	case Map:
		m, ok := v.(map[string]any)
		return m, ok
	default:
		return nil, false
	}
}

// coerceToInt64 accepts every integer width plus integral floats, which is
// what a JS call site produces for number literals.
func coerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}

func coerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
