package domain

// Key tokens understood by hosts in addition to digits and operators.
const (
	// DecimalPoint is the digit token that starts the fractional part.
	DecimalPoint = "."

	// KeyCompute triggers the pending computation.
	KeyCompute = "="

	// KeyReset clears the calculator. KeyResetAlt is accepted as a synonym.
	KeyReset    = "c"
	KeyResetAlt = "AC"
)

// IsDigitToken reports whether token is a single decimal digit or the decimal point.
func IsDigitToken(token string) bool {
	if len(token) != 1 {
		return false
	}
	return token == DecimalPoint || (token[0] >= '0' && token[0] <= '9')
}

// IsResetToken reports whether token asks for a reset.
func IsResetToken(token string) bool {
	return token == KeyReset || token == "C" || token == KeyResetAlt
}
