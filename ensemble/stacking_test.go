package ensemble

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/gbt"
)

func smallLearners() []NamedLearner {
	a := gbt.Params{Trees: 10, MaxDepth: 2, MinLeaf: 2, LearningRate: 0.2, L2: 1}
	b := gbt.Params{Trees: 15, MaxDepth: 3, MinLeaf: 2, LearningRate: 0.2, L2: 1}
	return []NamedLearner{
		{Name: "gbt-shallow", Params: a},
		{Name: "gbt-deep", Params: b},
	}
}

func dataset() ([][]float64, []int) {
	rng := rand.New(rand.NewSource(5))
	var X [][]float64
	var y []int
	for i := 0; i < 100; i++ {
		a := rng.Float64()
		b := rng.Float64()
		X = append(X, []float64{a, b})
		if a > 0.5 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return X, y
}

func TestPredictBeforeFit(t *testing.T) {
	e, err := New(smallLearners())
	require.NoError(t, err)

	_, err = e.Predict([]float64{0.3, 0.4})
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
}

func TestFitThenPredict(t *testing.T) {
	X, y := dataset()
	e, err := New(smallLearners())
	require.NoError(t, err)
	require.NoError(t, e.Fit(X, y, 5, 17))

	var correct int
	for i := range X {
		pred, err := e.Predict(X[i])
		require.NoError(t, err)
		if pred == y[i] {
			correct++
		}
	}
	assert.Greater(t, float64(correct)/float64(len(X)), 0.9)
}

func TestPredictDeterministicAfterFit(t *testing.T) {
	X, y := dataset()
	e, err := New(smallLearners())
	require.NoError(t, err)
	require.NoError(t, e.Fit(X, y, 5, 17))

	for _, row := range X[:10] {
		a, err := e.PredictProba(row)
		require.NoError(t, err)
		b, err := e.PredictProba(row)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestFitDeterministicAcrossRuns(t *testing.T) {
	X, y := dataset()

	a, err := New(smallLearners())
	require.NoError(t, err)
	require.NoError(t, a.Fit(X, y, 5, 17))

	b, err := New(smallLearners())
	require.NoError(t, err)
	require.NoError(t, b.Fit(X, y, 5, 17))

	for _, row := range X[:10] {
		pa, err := a.PredictProba(row)
		require.NoError(t, err)
		pb, err := b.PredictProba(row)
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestLearnerOrderIsStable(t *testing.T) {
	e, err := New(DefaultLearners(gbt.DefaultParams()))
	require.NoError(t, err)
	assert.Equal(t, []string{"gbt-shallow", "gbt-deep", "gbt-tuned"}, e.Names())
}

func TestNewRejectsBadLearners(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.IsPrecondition(err))

	_, err = New([]NamedLearner{{Name: "a"}, {Name: "a"}})
	assert.True(t, errors.IsPrecondition(err))

	_, err = New([]NamedLearner{{Name: ""}})
	assert.True(t, errors.IsPrecondition(err))
}

func TestFitRejectsTinyDatasets(t *testing.T) {
	e, err := New(smallLearners())
	require.NoError(t, err)

	err = e.Fit([][]float64{{1}, {2}}, []int{0, 1}, 5, 1)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
}
