// Package embedding learns a dense word-embedding table from windowed
// co-occurrence statistics of the training corpus and averages token
// embeddings into fixed-width document vectors.
package embedding

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/text"
)

// Config bounds the embedding fit.
type Config struct {
	// Dim is the width of every embedding vector.
	Dim int
	// Window is the number of neighbors on each side that count as
	// co-occurrences.
	Window int
	// MinCount drops tokens seen fewer times than this from the
	// vocabulary. Rare tokens are excluded, not approximated.
	MinCount int
}

// DefaultConfig mirrors the training defaults.
func DefaultConfig() Config {
	return Config{Dim: 100, Window: 5, MinCount: 2}
}

// Table is a fit-once mapping from token to a dense vector of width Dim.
// It is persisted with the trained model and loaded read-only at scoring
// time.
type Table struct {
	Dim     int
	Vectors map[string][]float64
}

// Train learns an embedding table from the tokenized corpus. The fit is
// fully deterministic: positive pointwise mutual information over windowed
// co-occurrence counts, factorized by SVD, keeping the top Dim components
// scaled by the square root of their singular values.
func Train(docs []text.Tokens, cfg Config) (*Table, error) {
	if cfg.Dim <= 0 {
		return nil, errors.Errorf("embedding dim must be positive, got %d", cfg.Dim)
	}
	if cfg.Window <= 0 {
		return nil, errors.Errorf("embedding window must be positive, got %d", cfg.Window)
	}

	counts := make(map[string]int)
	for _, doc := range docs {
		for _, tok := range doc {
			counts[tok]++
		}
	}

	var vocab []string
	for tok, n := range counts {
		if n >= cfg.MinCount {
			vocab = append(vocab, tok)
		}
	}
	if len(vocab) == 0 {
		return nil, errors.Errorf("corpus has no token above the min count of %d", cfg.MinCount)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}

	cooc := coocCounts(docs, index, cfg.Window)
	ppmi := ppmiMatrix(cooc, len(vocab))

	var svd mat.SVD
	if ok := svd.Factorize(ppmi, mat.SVDThin); !ok {
		return nil, errors.Errorf("embedding factorization did not converge")
	}
	var u mat.Dense
	svd.UTo(&u)
	sigma := svd.Values(nil)

	keep := cfg.Dim
	if len(sigma) < keep {
		keep = len(sigma)
	}

	vectors := make(map[string][]float64, len(vocab))
	for i, tok := range vocab {
		vec := make([]float64, cfg.Dim)
		for j := 0; j < keep; j++ {
			vec[j] = u.At(i, j) * math.Sqrt(sigma[j])
		}
		vectors[tok] = vec
	}
	return &Table{Dim: cfg.Dim, Vectors: vectors}, nil
}

// Vector returns the embedding for a token and whether it is in the table.
func (t *Table) Vector(tok string) ([]float64, bool) {
	vec, found := t.Vectors[tok]
	return vec, found
}

// Average returns the arithmetic mean of the embeddings of the tokens
// present in the table. Tokens outside the table are skipped; if none
// remain the zero vector of width Dim is returned.
func (t *Table) Average(tokens text.Tokens) []float64 {
	avg := make([]float64, t.Dim)
	var n int
	for _, tok := range tokens {
		vec, found := t.Vectors[tok]
		if !found {
			continue
		}
		for i, x := range vec {
			avg[i] += x
		}
		n++
	}
	if n == 0 {
		return avg
	}
	for i := range avg {
		avg[i] /= float64(n)
	}
	return avg
}

// coocCounts accumulates symmetric windowed co-occurrence counts over the
// vocabulary.
func coocCounts(docs []text.Tokens, index map[string]int, window int) map[[2]int]float64 {
	cooc := make(map[[2]int]float64)
	for _, doc := range docs {
		for i, tok := range doc {
			row, found := index[tok]
			if !found {
				continue
			}
			for j := i + 1; j < len(doc) && j <= i+window; j++ {
				col, found := index[doc[j]]
				if !found {
					continue
				}
				cooc[[2]int{row, col}]++
				cooc[[2]int{col, row}]++
			}
		}
	}
	return cooc
}

// ppmiMatrix converts raw co-occurrence counts into a dense positive
// pointwise mutual information matrix.
func ppmiMatrix(cooc map[[2]int]float64, size int) *mat.Dense {
	rowSums := make([]float64, size)
	var total float64
	for key, n := range cooc {
		rowSums[key[0]] += n
		total += n
	}

	m := mat.NewDense(size, size, nil)
	if total == 0 {
		return m
	}
	for key, n := range cooc {
		row, col := key[0], key[1]
		if rowSums[row] == 0 || rowSums[col] == 0 {
			continue
		}
		pmi := math.Log(n * total / (rowSums[row] * rowSums[col]))
		if pmi > 0 {
			m.Set(row, col, pmi)
		}
	}
	return m
}
