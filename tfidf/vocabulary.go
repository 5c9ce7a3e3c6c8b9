// Package tfidf builds a bounded lexical vocabulary over a training corpus
// and maps token sequences to fixed-width tf-idf vectors.
package tfidf

import (
	"math"
	"sort"

	"github.com/caseflow/escalate/text"
)

// IDFCounter is responsible for keeping the inverse-doc-frequency (idf)
// weight of each term.
type IDFCounter struct {
	NumDocs int
	Weights map[string]float64
}

// TrainIDFCounter computes smoothed idf weights from document frequencies.
func TrainIDFCounter(numDocs int, docFreqs map[string]int) *IDFCounter {
	weights := make(map[string]float64, len(docFreqs))
	for term, df := range docFreqs {
		weights[term] = math.Log(float64(1+numDocs)/float64(1+df)) + 1
	}
	return &IDFCounter{NumDocs: numDocs, Weights: weights}
}

// Weight returns the idf weight of a term, or 0 for terms never seen.
func (c *IDFCounter) Weight(term string) float64 {
	return c.Weights[term]
}

// Vocabulary is a fit-once mapping from term to column index plus the idf
// weight of each column. It is persisted with the trained model and reused
// read-only at scoring time.
type Vocabulary struct {
	// Terms holds the retained terms in sorted column order.
	Terms []string
	// IDF holds the idf weight for each column, aligned with Terms.
	IDF []float64
}

// Fit builds a vocabulary of at most k terms from the tokenized corpus.
// Terms are ranked by their total tf-idf mass across the corpus; the
// retained set is laid out in lexicographic column order so that the
// vectorization is stable across runs.
func Fit(docs []text.Tokens, k int) *Vocabulary {
	docFreqs := make(map[string]int)
	totals := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range doc {
			totals[tok]++
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			docFreqs[tok]++
		}
	}

	counter := TrainIDFCounter(len(docs), docFreqs)

	type ranked struct {
		term string
		mass float64
	}
	candidates := make([]ranked, 0, len(totals))
	for term, total := range totals {
		candidates = append(candidates, ranked{term: term, mass: float64(total) * counter.Weight(term)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mass != candidates[j].mass {
			return candidates[i].mass > candidates[j].mass
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	terms := make([]string, 0, len(candidates))
	for _, c := range candidates {
		terms = append(terms, c.term)
	}
	sort.Strings(terms)

	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = counter.Weight(term)
	}

	return &Vocabulary{Terms: terms, IDF: idf}
}

// Width returns the vector width produced by Vectorize.
func (v *Vocabulary) Width() int {
	return len(v.Terms)
}

// Vectorize maps a token sequence to a fixed-width tf-idf vector. Tokens
// outside the vocabulary contribute nothing; empty input yields all zeros.
// The result is L2-normalized when nonzero. The vocabulary is never
// mutated, so concurrent calls over one loaded artifact are safe.
func (v *Vocabulary) Vectorize(tokens text.Tokens) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, tok := range tokens {
		col := sort.SearchStrings(v.Terms, tok)
		if col < len(v.Terms) && v.Terms[col] == tok {
			vec[col] += v.IDF[col]
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
