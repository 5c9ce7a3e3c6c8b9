package text

import (
	"strings"
	"unicode"
)

// RemovePunctuations replaces punctuation and symbol runes with spaces.
func RemovePunctuations(s string) string {
	return strings.Map(func(c rune) rune {
		if unicode.IsPunct(c) || unicode.IsSymbol(c) {
			return ' '
		}
		return c
	}, s)
}

// RemoveDigits replaces digit runes with spaces.
func RemoveDigits(s string) string {
	return strings.Map(func(c rune) rune {
		if unicode.IsDigit(c) {
			return ' '
		}
		return c
	}, s)
}

// RemoveTrailingSpaces removes leading and trailing whitespace of a string.
func RemoveTrailingSpaces(s string) string {
	return strings.Trim(s, " \t\n")
}

// Normalize removes
// 1) punctuation
// 2) digits
// 3) leading and trailing spaces from a string.
func Normalize(s string) string {
	s = RemovePunctuations(s)
	s = RemoveDigits(s)
	s = RemoveTrailingSpaces(s)
	return s
}
