package pipeline

import (
	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/model"
)

// Scorer scores complaint records against a loaded bundle. All bundle state
// is read-only after construction, so one Scorer is safe for concurrent use.
type Scorer struct {
	bundle *model.Bundle
}

// NewScorer wraps a validated bundle.
func NewScorer(b *model.Bundle) (*Scorer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{bundle: b}, nil
}

// LoadScorer reads the bundle at path and wraps it.
func LoadScorer(path string) (*Scorer, error) {
	b, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	return &Scorer{bundle: b}, nil
}

// Bundle exposes the underlying artifacts, read-only.
func (s *Scorer) Bundle() *model.Bundle {
	return s.bundle
}

// ScoreProba featurizes one record through the training-time chain and
// returns the predicted label with its escalation probability. Empty text,
// unknown categories, and absent numeric fields all score through the
// defined fallbacks; only structurally invalid input is an InputError.
func (s *Scorer) ScoreProba(rec ComplaintRecord) (int, float64, error) {
	if err := rec.validate(); err != nil {
		return 0, 0, err
	}

	x, err := vector(s.bundle, rec)
	if err != nil {
		return 0, 0, err
	}
	scaled, err := s.bundle.Scaler.Apply(x)
	if err != nil {
		return 0, 0, err
	}
	prob, err := s.bundle.Ensemble.PredictProba(scaled)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "scoring")
	}

	label := 0
	if prob >= 0.5 {
		label = 1
	}
	return label, prob, nil
}

// Score returns just the predicted label.
func (s *Scorer) Score(rec ComplaintRecord) (int, error) {
	label, _, err := s.ScoreProba(rec)
	return label, err
}
