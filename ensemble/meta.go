package ensemble

import (
	"math"

	"github.com/caseflow/escalate/errors"
)

// MetaLearner is a binary logistic regression over the base learners'
// out-of-fold predictions.
type MetaLearner struct {
	Bias  float64   `json:"bias"`
	Coefs []float64 `json:"coefs"`
}

// metaIterations and metaRate configure the full-batch gradient fit. The
// fit has no random state, so repeated runs are identical.
const (
	metaIterations = 300
	metaRate       = 0.5
	metaL2         = 1e-3
)

// FitMeta trains the meta-learner on the out-of-fold prediction matrix
// against the true labels.
func FitMeta(oof [][]float64, y []int) (*MetaLearner, error) {
	if len(oof) == 0 {
		return nil, errors.Preconditionf("meta fit", "empty prediction matrix")
	}
	if len(oof) != len(y) {
		return nil, errors.ShapeMismatchf("labels", len(oof), len(y))
	}
	width := len(oof[0])

	m := &MetaLearner{Coefs: make([]float64, width)}
	n := float64(len(oof))
	gradC := make([]float64, width)

	for iter := 0; iter < metaIterations; iter++ {
		var gradB float64
		for i := range gradC {
			gradC[i] = 0
		}
		for row, feats := range oof {
			err := sigmoid(m.raw(feats)) - float64(y[row])
			gradB += err
			for i, f := range feats {
				gradC[i] += err * f
			}
		}
		m.Bias -= metaRate * gradB / n
		for i := range m.Coefs {
			m.Coefs[i] -= metaRate * (gradC[i]/n + metaL2*m.Coefs[i])
		}
	}
	return m, nil
}

// Evaluate returns the probability of the positive class for one row of
// base-learner predictions.
func (m *MetaLearner) Evaluate(feats []float64) (float64, error) {
	if len(feats) != len(m.Coefs) {
		return 0, errors.ShapeMismatchf("meta input", len(m.Coefs), len(feats))
	}
	return sigmoid(m.raw(feats)), nil
}

func (m *MetaLearner) raw(feats []float64) float64 {
	score := m.Bias
	for i, c := range m.Coefs {
		score += feats[i] * c
	}
	return score
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
