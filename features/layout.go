package features

import (
	"fmt"

	"github.com/caseflow/escalate/errors"
)

// Categorical and numeric fields of a complaint record, in canonical order.
// Changing either list changes the on-disk layout and invalidates every
// previously trained bundle.
var (
	CategoricalFields = []string{"complaint_type", "transaction_frequency"}
	NumericFields     = []string{"resolution_time_days", "prior_complaints"}
)

// Layout declares the canonical order and widths of the assembled feature
// vector:
//
//	[sentiment | categorical codes | numeric fields | embedding | lexical]
//
// The layout travels inside the artifact bundle so that training and
// scoring assemble byte-identical vectors.
type Layout struct {
	EmbeddingDim int
	LexicalDim   int
}

// NewLayout returns the layout for the given sub-vector widths.
func NewLayout(embeddingDim, lexicalDim int) Layout {
	return Layout{EmbeddingDim: embeddingDim, LexicalDim: lexicalDim}
}

// Width returns the total width of an assembled vector.
func (l Layout) Width() int {
	return 1 + len(CategoricalFields) + len(NumericFields) + l.EmbeddingDim + l.LexicalDim
}

// Labels returns a name for every column, in assembly order.
func (l Layout) Labels() []string {
	labels := []string{"sentiment"}
	labels = append(labels, CategoricalFields...)
	labels = append(labels, NumericFields...)
	for i := 0; i < l.EmbeddingDim; i++ {
		labels = append(labels, fmt.Sprintf("embedding_%d", i))
	}
	for i := 0; i < l.LexicalDim; i++ {
		labels = append(labels, fmt.Sprintf("lexical_%d", i))
	}
	return labels
}

// Assemble concatenates the sub-vectors into one vector in the canonical
// order. It is a pure function: no fitting state, same inputs always yield
// the same output. Any sub-vector whose width disagrees with the layout is
// a ShapeMismatchError; sub-vectors are never padded or truncated.
func (l Layout) Assemble(sentiment float64, codes, numerics, emb, lex []float64) ([]float64, error) {
	if len(codes) != len(CategoricalFields) {
		return nil, errors.ShapeMismatchf("categorical codes", len(CategoricalFields), len(codes))
	}
	if len(numerics) != len(NumericFields) {
		return nil, errors.ShapeMismatchf("numeric fields", len(NumericFields), len(numerics))
	}
	if len(emb) != l.EmbeddingDim {
		return nil, errors.ShapeMismatchf("embedding", l.EmbeddingDim, len(emb))
	}
	if len(lex) != l.LexicalDim {
		return nil, errors.ShapeMismatchf("lexical", l.LexicalDim, len(lex))
	}

	vec := make([]float64, 0, l.Width())
	vec = append(vec, sentiment)
	vec = append(vec, codes...)
	vec = append(vec, numerics...)
	vec = append(vec, emb...)
	vec = append(vec, lex...)
	return vec, nil
}
