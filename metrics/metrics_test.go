package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfusionMatrix(t *testing.T) {
	actual := []int{1, 1, 0, 0, 1, 0}
	predicted := []int{1, 0, 0, 1, 1, 0}

	c := ConfusionMatrix(actual, predicted)
	assert.Equal(t, Confusion{TP: 2, FP: 1, TN: 2, FN: 1}, c)
	assert.InDelta(t, 2.0/3.0, c.Precision(), 1e-12)
	assert.InDelta(t, 2.0/3.0, c.Recall(), 1e-12)
	assert.InDelta(t, 2.0/3.0, c.F1(), 1e-12)
}

func TestF1Degenerate(t *testing.T) {
	assert.Zero(t, F1([]int{0, 0}, []int{0, 0}))
	assert.Equal(t, 1.0, F1([]int{1, 0, 1}, []int{1, 0, 1}))
}

func TestAUCPerfectRanking(t *testing.T) {
	actual := []int{0, 0, 1, 1}
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	assert.InDelta(t, 1.0, AUC(actual, scores), 1e-9)
}

func TestAUCReversedRanking(t *testing.T) {
	actual := []int{1, 1, 0, 0}
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	assert.InDelta(t, 0.0, AUC(actual, scores), 1e-9)
}

func TestAUCSingleClass(t *testing.T) {
	assert.Equal(t, 0.5, AUC([]int{1, 1}, []float64{0.4, 0.6}))
}
