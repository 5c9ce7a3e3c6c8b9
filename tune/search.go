// Package tune searches a bounded gradient-boosted-tree parameter space
// for the configuration with the best held-out F1 score.
package tune

import (
	"math"
	"math/rand"

	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/gbt"
	"github.com/caseflow/escalate/metrics"
)

// DefaultBudget is the number of trials run when the caller does not
// override it.
const DefaultBudget = 30

// Space bounds every searched parameter as an inclusive [min, max] range.
type Space struct {
	Trees        [2]int
	MaxDepth     [2]int
	MinLeaf      [2]int
	LearningRate [2]float64
	L1           [2]float64
	L2           [2]float64
}

// DefaultSpace is the search space used by the training pipeline.
func DefaultSpace() Space {
	return Space{
		Trees:        [2]int{20, 200},
		MaxDepth:     [2]int{2, 6},
		MinLeaf:      [2]int{2, 20},
		LearningRate: [2]float64{0.02, 0.3},
		L1:           [2]float64{0, 1},
		L2:           [2]float64{0.1, 5},
	}
}

// Trial records one evaluated candidate.
type Trial struct {
	Params gbt.Params
	F1     float64
}

// Result is the outcome of a search.
type Result struct {
	Best   gbt.Params
	BestF1 float64
	Trials []Trial
}

// Search evaluates up to budget candidates and returns the parameter set
// with the best validation F1, ties broken by earliest trial. A single
// stratified train/validation split is created from the seed and reused by
// every trial so that no trial leaks validation rows into fitting. The
// first third of the budget samples the space uniformly; later trials
// perturb the incumbent best, so prior outcomes steer the proposals.
func Search(X [][]float64, y []int, space Space, budget int, seed int64) (Result, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if len(X) != len(y) {
		return Result{}, errors.ShapeMismatchf("labels", len(X), len(y))
	}

	rng := rand.New(rand.NewSource(seed))
	trainIdx, valIdx, err := stratifiedSplit(y, 0.2, rng)
	if err != nil {
		return Result{}, err
	}

	trainX, trainY := gather(X, y, trainIdx)
	valX, valY := gather(X, y, valIdx)

	explore := budget / 3
	if explore < 1 {
		explore = 1
	}

	var result Result
	for trial := 0; trial < budget; trial++ {
		var candidate gbt.Params
		if trial < explore || len(result.Trials) == 0 {
			candidate = space.sample(rng)
		} else {
			candidate = space.perturb(result.Best, rng)
		}

		model, err := gbt.Train(trainX, trainY, candidate)
		if err != nil {
			return Result{}, errors.Wrapf(err, "trial %d", trial)
		}

		predicted := make([]int, len(valX))
		for i, row := range valX {
			p, err := model.Predict(row)
			if err != nil {
				return Result{}, errors.Wrapf(err, "trial %d", trial)
			}
			predicted[i] = p
		}
		score := metrics.F1(valY, predicted)

		result.Trials = append(result.Trials, Trial{Params: candidate, F1: score})
		if len(result.Trials) == 1 || score > result.BestF1 {
			result.Best = candidate
			result.BestF1 = score
		}
	}
	return result, nil
}

// sample draws a uniform candidate from the space.
func (s Space) sample(rng *rand.Rand) gbt.Params {
	return gbt.Params{
		Trees:        randInt(rng, s.Trees),
		MaxDepth:     randInt(rng, s.MaxDepth),
		MinLeaf:      randInt(rng, s.MinLeaf),
		LearningRate: randFloat(rng, s.LearningRate),
		L1:           randFloat(rng, s.L1),
		L2:           randFloat(rng, s.L2),
	}
}

// perturb proposes a candidate near p, clamped to the space bounds.
func (s Space) perturb(p gbt.Params, rng *rand.Rand) gbt.Params {
	return gbt.Params{
		Trees:        clampInt(jitterInt(rng, p.Trees, s.Trees), s.Trees),
		MaxDepth:     clampInt(jitterInt(rng, p.MaxDepth, s.MaxDepth), s.MaxDepth),
		MinLeaf:      clampInt(jitterInt(rng, p.MinLeaf, s.MinLeaf), s.MinLeaf),
		LearningRate: clampFloat(jitterFloat(rng, p.LearningRate, s.LearningRate), s.LearningRate),
		L1:           clampFloat(jitterFloat(rng, p.L1, s.L1), s.L1),
		L2:           clampFloat(jitterFloat(rng, p.L2, s.L2), s.L2),
	}
}

func randInt(rng *rand.Rand, bounds [2]int) int {
	return bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
}

func randFloat(rng *rand.Rand, bounds [2]float64) float64 {
	return bounds[0] + rng.Float64()*(bounds[1]-bounds[0])
}

func jitterInt(rng *rand.Rand, value int, bounds [2]int) int {
	spread := float64(bounds[1]-bounds[0]) / 8
	return value + int(math.Round(rng.NormFloat64()*spread))
}

func jitterFloat(rng *rand.Rand, value float64, bounds [2]float64) float64 {
	spread := (bounds[1] - bounds[0]) / 8
	return value + rng.NormFloat64()*spread
}

func clampInt(v int, bounds [2]int) int {
	if v < bounds[0] {
		return bounds[0]
	}
	if v > bounds[1] {
		return bounds[1]
	}
	return v
}

func clampFloat(v float64, bounds [2]float64) float64 {
	if v < bounds[0] {
		return bounds[0]
	}
	if v > bounds[1] {
		return bounds[1]
	}
	return v
}

// stratifiedSplit partitions row indices into train and validation sets,
// preserving the label balance of both classes.
func stratifiedSplit(y []int, valFraction float64, rng *rand.Rand) (train, val []int, err error) {
	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	if len(pos) < 2 || len(neg) < 2 {
		return nil, nil, errors.Preconditionf("tune split",
			"need at least 2 samples of each class, got %d positive and %d negative", len(pos), len(neg))
	}

	for _, class := range [][]int{pos, neg} {
		class := append([]int(nil), class...)
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		cut := int(float64(len(class)) * valFraction)
		if cut < 1 {
			cut = 1
		}
		val = append(val, class[:cut]...)
		train = append(train, class[cut:]...)
	}
	return train, val, nil
}

func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	outX := make([][]float64, len(idx))
	outY := make([]int, len(idx))
	for i, row := range idx {
		outX[i] = X[row]
		outY[i] = y[row]
	}
	return outX, outY
}
