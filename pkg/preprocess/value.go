package preprocess

import (
	"strconv"

	"github.com/spf13/cast"
)

// ValueKind classifies a preprocessor symbol's value, per spec.md §4.1's
// condition-expression semantics.
type ValueKind int

const (
	Undefined ValueKind = iota
	NumberValue
	StringValue
	BoolValue
)

// Value is a preprocessor symbol's definition: either undefined, or one
// of number/string/bool, each carrying enough of the original text to
// re-derive any of the others via spf13/cast when a condition compares
// across kinds ("mixed compares via canonical string", spec.md §4.1).
type Value struct {
	Kind ValueKind
	Text string // canonical string form, always populated when Kind != Undefined
}

// ParseDefine classifies a raw @define value: an empty value (bare
// "@define NAME") and "true"/"false" are Bool, a numeric value is
// Number, and anything else is String.
func ParseDefine(raw string) Value {
	if raw == "" {
		return Value{Kind: BoolValue, Text: "true"} // bare "@define NAME" means "defined and truthy"
	}
	if b, err := cast.ToBoolE(raw); err == nil && (raw == "true" || raw == "false") {
		return Value{Kind: BoolValue, Text: strconv.FormatBool(b)}
	}
	if _, err := cast.ToFloat64E(raw); err == nil {
		return Value{Kind: NumberValue, Text: raw}
	}
	return Value{Kind: StringValue, Text: raw}
}

// AsBool reports the truthiness of v in a boolean expression context: an
// Undefined value is false; a Bool value is its literal; a Number value
// is "truthy" when non-zero; a String value is truthy when non-empty.
func (v Value) AsBool() bool {
	switch v.Kind {
	case Undefined:
		return false
	case BoolValue:
		return cast.ToBool(v.Text)
	case NumberValue:
		return cast.ToFloat64(v.Text) != 0
	case StringValue:
		return v.Text != ""
	default:
		return false
	}
}

// equalValues implements spec.md §4.1's cross-kind comparison rule: two
// Undefined values are equal only to each other, numeric values compare
// numerically against numeric values, and any other pairing (including a
// Bool on either side) falls back to canonical string comparison.
func equalValues(a, b Value) bool {
	if a.Kind == Undefined || b.Kind == Undefined {
		return a.Kind == Undefined && b.Kind == Undefined
	}
	if a.Kind == NumberValue && b.Kind == NumberValue {
		return cast.ToFloat64(a.Text) == cast.ToFloat64(b.Text)
	}
	return canonicalString(a) == canonicalString(b)
}

func canonicalString(v Value) string {
	switch v.Kind {
	case BoolValue:
		return strconv.FormatBool(cast.ToBool(v.Text))
	default:
		return v.Text
	}
}
