package features

import (
	"github.com/montanaflynn/stats"

	"github.com/caseflow/escalate/errors"
)

// Scaler standardizes assembled feature vectors with per-column mean and
// spread learned once on the training matrix. The fitted state is persisted
// and applied identically at scoring time; it is never refit while serving.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column mean and population standard deviation of
// the training matrix. Columns with zero spread keep a scale of 1 so that
// constant features pass through centered.
func FitScaler(X [][]float64) (*Scaler, error) {
	if len(X) == 0 {
		return nil, errors.Preconditionf("scaler fit", "empty training matrix")
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return nil, errors.ShapeMismatchf("scaler fit row", width, len(X[i]))
		}
	}

	mean := make([]float64, width)
	scale := make([]float64, width)
	column := make([]float64, len(X))
	for col := 0; col < width; col++ {
		for row := range X {
			column[row] = X[row][col]
		}
		m, err := stats.Mean(column)
		if err != nil {
			return nil, errors.Wrapf(err, "scaler fit column %d", col)
		}
		sd, err := stats.StdDevP(column)
		if err != nil {
			return nil, errors.Wrapf(err, "scaler fit column %d", col)
		}
		if sd == 0 {
			sd = 1
		}
		mean[col] = m
		scale[col] = sd
	}
	return &Scaler{Mean: mean, Scale: scale}, nil
}

// Apply standardizes one vector as (x - mean) / scale, returning a new
// slice. The input width must match the fitted width.
func (s *Scaler) Apply(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, errors.ShapeMismatchf("scaler input", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// ApplyMatrix standardizes every row of X.
func (s *Scaler) ApplyMatrix(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.Apply(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = scaled
	}
	return out, nil
}
