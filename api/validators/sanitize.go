package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString collapses runs of whitespace to single spaces and keeps at
// most maxLen runes when maxLen > 0. Merchants type Sinhala and Tamil deal
// names, so the cut never lands inside a character.
func SanitizeString(input string, maxLen int) string {
	clean := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 || utf8.RuneCountInString(clean) <= maxLen {
		return clean
	}
	runes := []rune(clean)
	return strings.TrimSpace(string(runes[:maxLen]))
}
