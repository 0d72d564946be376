package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/keypad/pkg/domain"
)

// Buffer accumulates the characters of an operand still being typed.
// It is a value: Append returns a new Buffer and never mutates the receiver.
type Buffer struct {
	text string
}

// NewBuffer starts a buffer with a single token.
func NewBuffer(token string) Buffer {
	return Buffer{}.Append(token)
}

// Append adds a digit or the decimal point.
//
// A second decimal point is ignored, and a point typed into an empty buffer
// becomes "0.". A digit typed after a lone "0" replaces it. Tokens that are not
// digits are ignored.
func (b Buffer) Append(token string) Buffer {
	if !domain.IsDigitToken(token) {
		return b
	}
	if token == domain.DecimalPoint {
		if strings.Contains(b.text, domain.DecimalPoint) {
			return b
		}
		if b.text == "" {
			return Buffer{text: "0" + domain.DecimalPoint}
		}
		return Buffer{text: b.text + token}
	}
	if b.text == "0" {
		return Buffer{text: token}
	}
	return Buffer{text: b.text + token}
}

// Value parses the accumulated text.
// Operands too large for a float64 parse to +Inf rather than failing.
func (b Buffer) Value() (float64, error) {
	if b.text == "" {
		return 0, fmt.Errorf("%w: empty operand", domain.ErrMalformedNumber)
	}
	n, err := strconv.ParseFloat(b.text, 64)
	if errors.Is(err, strconv.ErrRange) {
		return n, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedNumber, b.text)
	}
	return n, nil
}

// Display returns the literal text typed so far.
func (b Buffer) Display() string {
	return b.text
}

// Empty reports whether nothing has been typed.
func (b Buffer) Empty() bool {
	return b.text == ""
}
