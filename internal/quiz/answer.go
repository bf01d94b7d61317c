package quiz

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MatchAnswer reports whether given equals expected after lowercasing both.
// Whitespace and punctuation are significant.
func MatchAnswer(given, expected string) bool {
	// Casers keep state, so each call gets its own.
	lower := cases.Lower(language.Und)
	return lower.String(given) == lower.String(expected)
}
