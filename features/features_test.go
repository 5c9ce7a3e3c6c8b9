package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/escalate/errors"
)

func TestFitLabels(t *testing.T) {
	enc := FitLabels([]string{"billing", "delivery", "billing", "service"})

	assert.Equal(t, []string{"billing", "delivery", "service"}, enc.Categories())
	assert.Equal(t, 1.0, enc.Code("billing"))
	assert.Equal(t, 2.0, enc.Code("delivery"))
	assert.Equal(t, 3.0, enc.Code("service"))
}

func TestCodeUnseenCategory(t *testing.T) {
	enc := FitLabels([]string{"billing", "delivery"})

	assert.EqualValues(t, UnknownCode, enc.Code("never_seen_before"))
	assert.EqualValues(t, UnknownCode, enc.Code(""))
}

func TestLayoutWidthAndLabels(t *testing.T) {
	l := NewLayout(4, 3)

	require.Equal(t, 1+2+2+4+3, l.Width())
	labels := l.Labels()
	require.Len(t, labels, l.Width())
	assert.Equal(t, "sentiment", labels[0])
	assert.Equal(t, "complaint_type", labels[1])
	assert.Equal(t, "transaction_frequency", labels[2])
	assert.Equal(t, "resolution_time_days", labels[3])
	assert.Equal(t, "prior_complaints", labels[4])
	assert.Equal(t, "embedding_0", labels[5])
	assert.Equal(t, "lexical_0", labels[9])
}

func TestAssembleCanonicalOrder(t *testing.T) {
	l := NewLayout(2, 2)
	vec, err := l.Assemble(-0.5, []float64{1, 2}, []float64{3.5, 1}, []float64{0.1, 0.2}, []float64{0, 0.9})
	require.NoError(t, err)

	assert.Equal(t, []float64{-0.5, 1, 2, 3.5, 1, 0.1, 0.2, 0, 0.9}, vec)
}

func TestAssembleIsPure(t *testing.T) {
	l := NewLayout(2, 2)
	args := func() ([]float64, error) {
		return l.Assemble(0.25, []float64{2, 1}, []float64{0, 4}, []float64{1, 1}, []float64{0.5, 0.5})
	}
	first, err := args()
	require.NoError(t, err)
	second, err := args()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssembleShapeMismatch(t *testing.T) {
	l := NewLayout(2, 2)

	_, err := l.Assemble(0, []float64{1}, []float64{0, 0}, []float64{0, 0}, []float64{0, 0})
	require.Error(t, err)
	assert.True(t, errors.IsShapeMismatch(err))

	_, err = l.Assemble(0, []float64{1, 2}, []float64{0, 0}, []float64{0, 0, 0}, []float64{0, 0})
	require.Error(t, err)
	assert.True(t, errors.IsShapeMismatch(err))

	_, err = l.Assemble(0, []float64{1, 2}, []float64{0, 0}, []float64{0, 0}, []float64{0})
	require.Error(t, err)
	assert.True(t, errors.IsShapeMismatch(err))
}

func TestScalerFitApply(t *testing.T) {
	X := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}
	s, err := FitScaler(X)
	require.NoError(t, err)

	scaled, err := s.ApplyMatrix(X)
	require.NoError(t, err)

	// per-column mean ~ 0 and spread ~ 1 after standardization
	for col := 0; col < 2; col++ {
		var mean, sq float64
		for _, row := range scaled {
			mean += row[col]
		}
		mean /= float64(len(scaled))
		for _, row := range scaled {
			d := row[col] - mean
			sq += d * d
		}
		sq /= float64(len(scaled))
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, sq, 1e-9)
	}

	// constant column is centered, not blown up
	for _, row := range scaled {
		assert.Zero(t, row[2])
	}
}

func TestScalerApplyShapeMismatch(t *testing.T) {
	s, err := FitScaler([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	_, err = s.Apply([]float64{1})
	require.Error(t, err)
	assert.True(t, errors.IsShapeMismatch(err))
}
