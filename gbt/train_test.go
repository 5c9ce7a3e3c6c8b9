package gbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/escalate/errors"
)

// separable builds a toy dataset where the second feature decides the label.
func separable() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 40; i++ {
		X = append(X, []float64{float64(i % 7), float64(i % 3)})
		if i%3 > 0 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return X, y
}

func TestTrainLearnsSeparableData(t *testing.T) {
	X, y := separable()
	model, err := Train(X, y, Params{Trees: 20, MaxDepth: 3, MinLeaf: 2, LearningRate: 0.3, L2: 1})
	require.NoError(t, err)

	var correct int
	for i := range X {
		pred, err := model.Predict(X[i])
		require.NoError(t, err)
		if pred == y[i] {
			correct++
		}
	}
	assert.Equal(t, len(X), correct, "model should fit a separable training set")
}

func TestTrainDeterministic(t *testing.T) {
	X, y := separable()
	p := Params{Trees: 10, MaxDepth: 3, MinLeaf: 2, LearningRate: 0.3, L2: 1}

	a, err := Train(X, y, p)
	require.NoError(t, err)
	b, err := Train(X, y, p)
	require.NoError(t, err)

	for i := range X {
		pa, err := a.PredictProba(X[i])
		require.NoError(t, err)
		pb, err := b.PredictProba(X[i])
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestPredictShapeMismatch(t *testing.T) {
	X, y := separable()
	model, err := Train(X, y, DefaultParams())
	require.NoError(t, err)

	_, err = model.PredictProba([]float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.IsShapeMismatch(err))
}

func TestTrainRejectsBadInputs(t *testing.T) {
	_, err := Train(nil, nil, DefaultParams())
	assert.True(t, errors.IsPrecondition(err))

	_, err = Train([][]float64{{1}}, []int{0, 1}, DefaultParams())
	assert.True(t, errors.IsShapeMismatch(err))

	_, err = Train([][]float64{{1}, {2}}, []int{0, 1}, Params{})
	assert.True(t, errors.IsPrecondition(err))
}

func TestSingleClassStaysFinite(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {3}}
	y := []int{0, 0, 0, 0}

	model, err := Train(X, y, Params{Trees: 5, MaxDepth: 2, MinLeaf: 1, LearningRate: 0.1, L2: 1})
	require.NoError(t, err)

	prob, err := model.PredictProba([]float64{1})
	require.NoError(t, err)
	assert.True(t, prob >= 0 && prob <= 1)
	assert.Less(t, prob, 0.5)
}
