// Package operators holds the fixed registry of calculator operators.
//
// Tokens are classified as unary (applied immediately to the current operand) or
// binary (combining two operands strictly left to right). Any other token is invalid.
package operators

import (
	"fmt"
	"math"
	"sort"

	"github.com/aretw0/keypad/pkg/domain"
)

// Class tells how an operator token combines operands.
type Class int

const (
	ClassUnknown Class = iota
	ClassUnary
	ClassBinary
)

func (c Class) String() string {
	switch c {
	case ClassUnary:
		return "unary"
	case ClassBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Unary is an operator over a single operand.
type Unary struct {
	Symbol string
	Name   string
}

// Apply computes the operation.
func (op Unary) Apply(x float64) float64 {
	switch op.Symbol {
	case "s":
		return -x
	case "r":
		return math.Sqrt(x)
	default:
		panic("unknown unary operator " + op.Symbol)
	}
}

func (op Unary) String() string { return op.Symbol }

// Binary is an operator combining two operands as first op second.
type Binary struct {
	Symbol string
	Name   string
}

// Apply computes the operation. Order matters: x is the first operand.
// Numeric failures are not special-cased: x/0 yields ±Inf (NaN for 0/0).
func (op Binary) Apply(x, y float64) float64 {
	switch op.Symbol {
	case "+":
		return x + y
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	default:
		panic("unknown binary operator " + op.Symbol)
	}
}

func (op Binary) String() string { return op.Symbol }

var (
	unary = map[string]Unary{
		"s": {Symbol: "s", Name: "negate"},
		"r": {Symbol: "r", Name: "sqrt"},
	}

	binary = map[string]Binary{
		"+": {Symbol: "+", Name: "add"},
		"-": {Symbol: "-", Name: "subtract"},
		"*": {Symbol: "*", Name: "multiply"},
		"/": {Symbol: "/", Name: "divide"},
	}
)

// LookupUnary returns the unary operator registered under token.
func LookupUnary(token string) (Unary, bool) {
	op, ok := unary[token]
	return op, ok
}

// LookupBinary returns the binary operator registered under token.
func LookupBinary(token string) (Binary, bool) {
	op, ok := binary[token]
	return op, ok
}

// MustBinary is like LookupBinary but returns domain.ErrInvalidOperator for unknown tokens.
func MustBinary(token string) (Binary, error) {
	op, ok := binary[token]
	if !ok {
		return Binary{}, InvalidOperator(token)
	}
	return op, nil
}

// Classify reports the class of token.
func Classify(token string) Class {
	if _, ok := unary[token]; ok {
		return ClassUnary
	}
	if _, ok := binary[token]; ok {
		return ClassBinary
	}
	return ClassUnknown
}

// InvalidOperator builds the error for an unrecognized token.
func InvalidOperator(token string) error {
	return fmt.Errorf("%w: %q", domain.ErrInvalidOperator, token)
}

// UnaryTokens returns the registered unary tokens, sorted.
func UnaryTokens() []string {
	return sortedKeys(unary)
}

// BinaryTokens returns the registered binary tokens, sorted.
func BinaryTokens() []string {
	return sortedKeys(binary)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
