// Package pipeline orchestrates offline training and online scoring. Both
// paths share one featurization chain so the vectors they produce are
// identical by construction.
package pipeline

import (
	"math"

	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/model"
	"github.com/caseflow/escalate/sentiment"
	"github.com/caseflow/escalate/text"
)

// ComplaintRecord is one raw complaint, ingested from the training table or
// received in a scoring request. Missing numeric fields stay 0; missing
// categorical fields stay "" and encode to the reserved unknown code.
type ComplaintRecord struct {
	ID                   string  `csv:"id" json:"id,omitempty"`
	Description          string  `csv:"complaint_description" json:"complaint_description"`
	ComplaintType        string  `csv:"complaint_type" json:"complaint_type,omitempty"`
	TransactionFrequency string  `csv:"transaction_frequency" json:"transaction_frequency,omitempty"`
	ResolutionTimeDays   float64 `csv:"resolution_time_days" json:"resolution_time_days,omitempty"`
	PriorComplaints      float64 `csv:"prior_complaints" json:"prior_complaints,omitempty"`
	Escalated            int     `csv:"escalated" json:"-"`
}

// validate rejects records whose numeric fields are not finite. Empty text
// and unknown categories are handled by the defined fallbacks, not by
// errors.
func (r ComplaintRecord) validate() error {
	if math.IsNaN(r.ResolutionTimeDays) || math.IsInf(r.ResolutionTimeDays, 0) {
		return errors.Inputf("resolution_time_days", "must be a finite number")
	}
	if math.IsNaN(r.PriorComplaints) || math.IsInf(r.PriorComplaints, 0) {
		return errors.Inputf("prior_complaints", "must be a finite number")
	}
	return nil
}

// vector runs the canonical featurization chain for one record against the
// fit-once artifacts in the bundle: normalize, sentiment, embed, vectorize,
// assemble. The class balancer and scaler are deliberately not part of this
// chain; the scaler is applied by the caller and balancing happens only on
// the assembled training matrix.
func vector(b *model.Bundle, rec ComplaintRecord) ([]float64, error) {
	tokens := text.NormalizeTokens(rec.Description)

	codes := []float64{
		b.TypeEncoding.Code(rec.ComplaintType),
		b.FrequencyEncoding.Code(rec.TransactionFrequency),
	}
	numerics := []float64{rec.ResolutionTimeDays, rec.PriorComplaints}

	return b.Layout.Assemble(
		sentiment.Score(rec.Description),
		codes,
		numerics,
		b.Embeddings.Average(tokens),
		b.Vocabulary.Vectorize(tokens),
	)
}

// labelVector extracts the binary escalation labels.
func labelVector(records []ComplaintRecord) ([]int, error) {
	y := make([]int, len(records))
	for i, rec := range records {
		if rec.Escalated != 0 && rec.Escalated != 1 {
			return nil, errors.Inputf("escalated", "row %d has label %d, want 0 or 1", i, rec.Escalated)
		}
		y[i] = rec.Escalated
	}
	return y, nil
}
