// Package model defines the versioned artifact bundle produced by one
// training run and consumed read-only by the scoring path. The bundle is
// the only channel through which fit-once state reaches serving; loading a
// bundle with any member missing is an error, never a silent fallback.
package model

import (
	"github.com/caseflow/escalate/embedding"
	"github.com/caseflow/escalate/ensemble"
	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/features"
	"github.com/caseflow/escalate/serialization"
	"github.com/caseflow/escalate/tfidf"
)

// Version identifies the bundle schema. Bump on any layout or member
// change.
const Version = 1

// Bundle holds every fit-once artifact of a training run as one coherent
// unit.
type Bundle struct {
	Version int
	Layout  features.Layout

	TypeEncoding      features.LabelEncoding
	FrequencyEncoding features.LabelEncoding
	Embeddings        *embedding.Table
	Vocabulary        *tfidf.Vocabulary
	Scaler            *features.Scaler
	Ensemble          *ensemble.Ensemble
}

// Validate checks that the bundle is complete and internally consistent.
func (b *Bundle) Validate() error {
	if b.Version != Version {
		return errors.Errorf("bundle version %d, expected %d", b.Version, Version)
	}
	if b.TypeEncoding.Codes == nil {
		return errors.Errorf("bundle is missing the complaint-type encoding")
	}
	if b.FrequencyEncoding.Codes == nil {
		return errors.Errorf("bundle is missing the transaction-frequency encoding")
	}
	if b.Embeddings == nil {
		return errors.Errorf("bundle is missing the embedding table")
	}
	if b.Vocabulary == nil {
		return errors.Errorf("bundle is missing the lexical vocabulary")
	}
	if b.Scaler == nil {
		return errors.Errorf("bundle is missing the feature scaler")
	}
	if b.Ensemble == nil {
		return errors.Errorf("bundle is missing the trained ensemble")
	}
	if !b.Ensemble.Fitted {
		return errors.Errorf("bundle ensemble was never fitted")
	}

	if b.Embeddings.Dim != b.Layout.EmbeddingDim {
		return errors.ShapeMismatchf("bundle embedding table", b.Layout.EmbeddingDim, b.Embeddings.Dim)
	}
	if b.Vocabulary.Width() != b.Layout.LexicalDim {
		return errors.ShapeMismatchf("bundle vocabulary", b.Layout.LexicalDim, b.Vocabulary.Width())
	}
	if len(b.Scaler.Mean) != b.Layout.Width() {
		return errors.ShapeMismatchf("bundle scaler", b.Layout.Width(), len(b.Scaler.Mean))
	}
	for i, m := range b.Ensemble.Models {
		if m == nil {
			return errors.Errorf("bundle base learner %s has no model", b.Ensemble.Learners[i].Name)
		}
		if m.FeatureSize != b.Layout.Width() {
			return errors.ShapeMismatchf("bundle base learner "+b.Ensemble.Learners[i].Name,
				b.Layout.Width(), m.FeatureSize)
		}
	}
	return nil
}

// Save validates the bundle and writes it to path. The extension selects
// the encoding (.gob.gz recommended).
func (b *Bundle) Save(path string) error {
	if err := b.Validate(); err != nil {
		return errors.Wrapf(err, "refusing to save incomplete bundle")
	}
	return serialization.Encode(path, b)
}

// Load reads a bundle from path and validates it. A bundle that fails
// validation is never returned partially.
func Load(path string) (*Bundle, error) {
	var b Bundle
	if err := serialization.Decode(path, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrapf(err, "bundle %s failed validation", path)
	}
	return &b, nil
}
