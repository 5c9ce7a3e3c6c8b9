package text

import (
	"bufio"
	"bytes"
	"strings"

	porterstemmer "github.com/kiteco/go-porterstemmer"
)

// TokenFunc defines a type of function that takes in an array of tokens and
// returns an array of tokens.
type TokenFunc func(Tokens) Tokens

// Tokens represents a slice of strings
type Tokens []string

// Processor consists of a list of text processing rules.
type Processor struct {
	filters []TokenFunc
}

// ComplaintProcessor is the processor applied to complaint descriptions
// before any vectorization: lowercase, drop stop words, stem.
var ComplaintProcessor = NewProcessor(Lower, RemoveStopWords, Stem)

// NewProcessor takes a list of TokenFuncs to instantiate a Processor.
func NewProcessor(funcs ...TokenFunc) *Processor {
	p := &Processor{}
	for _, fn := range funcs {
		p.filters = append(p.filters, fn)
	}
	return p
}

// Apply applies a list of TokenFunc to transform the input tokens
func (p *Processor) Apply(ts Tokens) Tokens {
	for _, fn := range p.filters {
		ts = fn(ts)
	}
	return ts
}

// Tokenize normalizes a string and splits it on whitespace.
func Tokenize(s string) Tokens {
	s = Normalize(s)

	buf := bytes.NewBufferString(s)
	scanner := bufio.NewScanner(buf)
	scanner.Split(bufio.ScanWords)

	var tokens Tokens
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	return tokens
}

// NormalizeTokens is the canonical cleaning step shared by training and
// scoring: tokenize the raw string and run the complaint processor over it.
// It never panics; malformed input degrades to an empty token sequence.
func NormalizeTokens(s string) (tokens Tokens) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
		}
	}()
	return ComplaintProcessor.Apply(Tokenize(s))
}

// Lower converts all tokens to lower case
func Lower(ts Tokens) Tokens {
	for i, t := range ts {
		ts[i] = strings.ToLower(t)
	}
	return ts
}

// Stem extracts and returns the stems of each token in the input token stream
func Stem(ts Tokens) Tokens {
	for i, t := range ts {
		ts[i] = porterstemmer.StemString(t)
	}
	return ts
}

// Uniquify returns the set of unique tokens in a token stream
func Uniquify(ts Tokens) Tokens {
	var uniqueTokens Tokens
	seen := make(map[string]struct{})
	for _, t := range ts {
		if _, exists := seen[t]; !exists {
			uniqueTokens = append(uniqueTokens, t)
			seen[t] = struct{}{}
		}
	}
	return uniqueTokens
}

// RemoveStopWords removes stop words from a token stream
func RemoveStopWords(ts Tokens) Tokens {
	var filtered Tokens
	for _, t := range ts {
		if !skip(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// skip determines whether a word should be removed (or skipped).
func skip(w string) bool {
	_, found := stopWords[w]
	return found
}
