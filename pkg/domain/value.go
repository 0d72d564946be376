package domain

import (
	"math"
	"strconv"
)

// ErrorSentinel is the fixed display of the Error state.
const ErrorSentinel = "- Error -"

// ValueKind tells which field of a Value is meaningful.
type ValueKind string

const (
	ValueNumber ValueKind = "number"
	ValueText   ValueKind = "text"
	ValueError  ValueKind = "error"
)

// Value is what the calculator currently shows.
// Exactly one of Number (ValueNumber) or Text (ValueText) is meaningful;
// ValueError carries neither.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// NumberValue wraps a computed Number.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// TextValue wraps in-progress operand text.
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// ErrorValue returns the error sentinel value.
func ErrorValue() Value {
	return Value{Kind: ValueError}
}

// IsError reports whether v is the error sentinel.
func (v Value) IsError() bool {
	return v.Kind == ValueError
}

// Float returns the numeric interpretation of v.
// Text values are parsed; the error sentinel yields false.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		n, err := strconv.ParseFloat(v.Text, 64)
		return n, err == nil
	}
	return math.NaN(), false
}

// String renders v for a display.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return FormatNumber(v.Number)
	case ValueText:
		return v.Text
	default:
		return ErrorSentinel
	}
}

// FormatNumber renders n with up to 12 significant digits.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', 12, 64)
}
