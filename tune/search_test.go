package tune

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/escalate/errors"
)

func dataset() ([][]float64, []int) {
	rng := rand.New(rand.NewSource(3))
	var X [][]float64
	var y []int
	for i := 0; i < 120; i++ {
		a := rng.Float64()
		b := rng.Float64()
		X = append(X, []float64{a, b, rng.Float64()})
		if a+b > 1 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return X, y
}

func TestSearchRespectsBudget(t *testing.T) {
	X, y := dataset()
	space := DefaultSpace()
	space.Trees = [2]int{5, 20}

	result, err := Search(X, y, space, 8, 11)
	require.NoError(t, err)
	require.Len(t, result.Trials, 8)
}

func TestSearchBestMatchesTrials(t *testing.T) {
	X, y := dataset()
	space := DefaultSpace()
	space.Trees = [2]int{5, 20}

	result, err := Search(X, y, space, 8, 11)
	require.NoError(t, err)

	best := result.Trials[0].F1
	for _, trial := range result.Trials {
		if trial.F1 > best {
			best = trial.F1
		}
	}
	assert.Equal(t, best, result.BestF1)
}

func TestSearchBoundsRespected(t *testing.T) {
	X, y := dataset()
	space := DefaultSpace()
	space.Trees = [2]int{5, 20}

	result, err := Search(X, y, space, 10, 23)
	require.NoError(t, err)

	for _, trial := range result.Trials {
		p := trial.Params
		assert.True(t, p.Trees >= space.Trees[0] && p.Trees <= space.Trees[1])
		assert.True(t, p.MaxDepth >= space.MaxDepth[0] && p.MaxDepth <= space.MaxDepth[1])
		assert.True(t, p.MinLeaf >= space.MinLeaf[0] && p.MinLeaf <= space.MinLeaf[1])
		assert.True(t, p.LearningRate >= space.LearningRate[0] && p.LearningRate <= space.LearningRate[1])
		assert.True(t, p.L1 >= space.L1[0] && p.L1 <= space.L1[1])
		assert.True(t, p.L2 >= space.L2[0] && p.L2 <= space.L2[1])
	}
}

func TestSearchDeterministic(t *testing.T) {
	X, y := dataset()
	space := DefaultSpace()
	space.Trees = [2]int{5, 15}

	a, err := Search(X, y, space, 6, 99)
	require.NoError(t, err)
	b, err := Search(X, y, space, 6, 99)
	require.NoError(t, err)

	assert.Equal(t, a.Best, b.Best)
	assert.Equal(t, a.BestF1, b.BestF1)
	assert.Equal(t, a.Trials, b.Trials)
}

func TestSearchNeedsBothClasses(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 0, 0, 0}

	_, err := Search(X, y, DefaultSpace(), 3, 1)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
}
