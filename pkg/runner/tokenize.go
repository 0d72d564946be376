package runner

import (
	"strings"

	"github.com/aretw0/keypad/pkg/domain"
)

// Tokenize splits a line into keys. Whitespace separates groups; inside a group
// every character is its own key, so "12+3=" and "1 2 + 3 =" are equivalent.
// The multi-letter reset key "AC" is kept whole.
func Tokenize(line string) []string {
	var keys []string
	for _, field := range strings.Fields(line) {
		if field == domain.KeyResetAlt {
			keys = append(keys, field)
			continue
		}
		for _, r := range field {
			keys = append(keys, string(r))
		}
	}
	return keys
}
