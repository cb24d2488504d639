package module

import (
	"github.com/wippyai/js-bridge/errors"
)

// ConvertArgs converts a raw call-site value sequence into the typed tuple
// declared by types. The arity must match exactly. Conversion is total and
// deterministic: the same inputs always yield the same tuple or the same
// error.
func ConvertArgs(function string, types []ArgType, args []any) ([]any, error) {
	if len(args) != len(types) {
		return nil, errors.ArgumentCount(function, len(types), len(args))
	}

	converted := make([]any, len(args))
	for i, t := range types {
		v, ok := t.convert(args[i])
		if !ok {
			return nil, errors.ArgumentType(function, i, t.String(), TypeName(args[i]))
		}
		converted[i] = v
	}
	return converted, nil
}
