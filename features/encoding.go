// Package features owns the canonical feature-vector contract shared by
// training and scoring: categorical label encodings, the assembled layout,
// and the fitted scaler.
package features

import "sort"

// UnknownCode is the reserved code for a categorical value that was not
// present when the encoding was fit. Unseen categories map here instead of
// raising; this fallback is part of the serving contract.
const UnknownCode = 0

// LabelEncoding maps a category string to a small-integer code. It is fit
// once on the training corpus, persisted, and reused verbatim at scoring
// time.
type LabelEncoding struct {
	Codes map[string]float64
}

// FitLabels assigns codes 1..n to the distinct values in sorted order, so
// the encoding does not depend on row order. Code 0 stays reserved for
// unseen categories.
func FitLabels(values []string) LabelEncoding {
	distinct := make(map[string]struct{})
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	cats := make([]string, 0, len(distinct))
	for v := range distinct {
		cats = append(cats, v)
	}
	sort.Strings(cats)

	codes := make(map[string]float64, len(cats))
	for i, v := range cats {
		codes[v] = float64(i + 1)
	}
	return LabelEncoding{Codes: codes}
}

// Code returns the code for a category, or UnknownCode for a category the
// encoding has never seen (including the empty string).
func (e LabelEncoding) Code(v string) float64 {
	if code, found := e.Codes[v]; found {
		return code
	}
	return UnknownCode
}

// Categories returns the known categories in code order.
func (e LabelEncoding) Categories() []string {
	cats := make([]string, 0, len(e.Codes))
	for v := range e.Codes {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return cats
}
