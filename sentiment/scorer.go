// Package sentiment derives a bounded polarity score from raw complaint
// text using a fixed valence lexicon with negation and intensity handling.
package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	// negationWindow is how many preceding tokens are checked for a negation.
	negationWindow = 3
	// squashAlpha controls how quickly the raw valence sum saturates.
	squashAlpha = 15.0
)

// Score maps raw text to a polarity in [-1, 1]. Empty or non-text input
// scores 0. The same input always produces the same score.
func Score(raw string) float64 {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for i, tok := range tokens {
		valence, found := valences[tok]
		if !found {
			continue
		}
		if factor, found := modifiers[prev(tokens, i)]; found {
			valence *= factor
		}
		if negated(tokens, i) {
			valence = -valence
		}
		sum += valence
	}
	if sum == 0 {
		return 0
	}
	// squash the unbounded sum into [-1, 1]
	return sum / math.Sqrt(sum*sum+squashAlpha)
}

// tokenize lowercases and splits on anything that is not a letter.
// Apostrophes are dropped rather than split so that "didn't" matches the
// negation list as "didnt".
func tokenize(s string) []string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "'", "")
	return strings.FieldsFunc(s, func(c rune) bool {
		return !unicode.IsLetter(c)
	})
}

func prev(tokens []string, i int) string {
	if i == 0 {
		return ""
	}
	return tokens[i-1]
}

// negated reports whether any of the negationWindow tokens before index i
// is a negation word.
func negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if _, found := negations[tokens[j]]; found {
			return true
		}
	}
	return false
}
