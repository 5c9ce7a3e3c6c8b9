// Package ensemble stacks several gradient-boosted tree learners behind a
// logistic meta-learner trained on out-of-fold predictions.
package ensemble

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/gbt"
	"github.com/caseflow/escalate/workerpool"
)

// DefaultFolds is the cross-validation fold count used when fitting.
const DefaultFolds = 5

// NamedLearner is one base learner slot: a stable identifier plus its
// configuration. The identifier order captured at construction is the order
// used for the out-of-fold matrix and for every later prediction.
type NamedLearner struct {
	Name   string     `json:"name"`
	Params gbt.Params `json:"params"`
}

// DefaultLearners returns the standard base-learner lineup: two fixed
// configurations bracketing the bias/variance tradeoff plus the tuned one.
func DefaultLearners(tuned gbt.Params) []NamedLearner {
	shallow := gbt.DefaultParams()
	shallow.MaxDepth = 2
	shallow.Trees = 150
	shallow.LearningRate = 0.05

	deep := gbt.DefaultParams()
	deep.MaxDepth = 5
	deep.Trees = 60

	return []NamedLearner{
		{Name: "gbt-shallow", Params: shallow},
		{Name: "gbt-deep", Params: deep},
		{Name: "gbt-tuned", Params: tuned},
	}
}

// Ensemble combines base learners via stacking. The zero value is unusable;
// construct with New. Fit must complete before Predict.
type Ensemble struct {
	Learners []NamedLearner `json:"learners"`
	Models   []*gbt.Model   `json:"models"`
	Meta     *MetaLearner   `json:"meta"`
	Fitted   bool           `json:"fitted"`
}

// New returns an unfitted ensemble over the given base learners.
func New(learners []NamedLearner) (*Ensemble, error) {
	if len(learners) == 0 {
		return nil, errors.Preconditionf("ensemble", "no base learners")
	}
	seen := make(map[string]struct{}, len(learners))
	for _, l := range learners {
		if l.Name == "" {
			return nil, errors.Preconditionf("ensemble", "base learner with empty name")
		}
		if _, dup := seen[l.Name]; dup {
			return nil, errors.Preconditionf("ensemble", "duplicate base learner %q", l.Name)
		}
		seen[l.Name] = struct{}{}
	}
	return &Ensemble{Learners: learners}, nil
}

// Names returns the base-learner identifiers in stacking order.
func (e *Ensemble) Names() []string {
	names := make([]string, len(e.Learners))
	for i, l := range e.Learners {
		names[i] = l.Name
	}
	return names
}

// Fit trains the ensemble: k-fold out-of-fold predictions for every base
// learner, a full-data refit of each base learner for later inference, and
// a meta-learner over the out-of-fold matrix. Folds are assigned by a
// seeded shuffle and fold training runs in parallel; each job writes only
// its own slots, so parallel and sequential execution produce identical
// results.
func (e *Ensemble) Fit(X [][]float64, y []int, k int, seed int64) error {
	if k < 2 {
		k = DefaultFolds
	}
	if len(X) != len(y) {
		return errors.ShapeMismatchf("labels", len(X), len(y))
	}
	if len(X) < k {
		return errors.Preconditionf("ensemble fit", "%d samples cannot fill %d folds", len(X), k)
	}

	folds := assignFolds(len(X), k, seed)

	oof := make([][]float64, len(X))
	for i := range oof {
		oof[i] = make([]float64, len(e.Learners))
	}
	models := make([]*gbt.Model, len(e.Learners))

	pool := workerpool.New(runtime.NumCPU())
	var jobErr error
	var once sync.Once

	var jobs []workerpool.Job
	for fold := 0; fold < k; fold++ {
		fold := fold
		for li := range e.Learners {
			li := li
			jobs = append(jobs, func() error {
				err := e.fitFold(X, y, folds, fold, li, oof)
				if err != nil {
					once.Do(func() { jobErr = err })
				}
				return err
			})
		}
	}
	// full-data refits used at prediction time
	for li := range e.Learners {
		li := li
		jobs = append(jobs, func() error {
			model, err := gbt.Train(X, y, e.Learners[li].Params)
			if err != nil {
				once.Do(func() { jobErr = errors.Wrapf(err, "refit %s", e.Learners[li].Name) })
				return err
			}
			models[li] = model
			return nil
		})
	}

	pool.Add(jobs)
	pool.Wait()
	if jobErr != nil {
		return jobErr
	}

	meta, err := FitMeta(oof, y)
	if err != nil {
		return err
	}

	e.Models = models
	e.Meta = meta
	e.Fitted = true
	return nil
}

func (e *Ensemble) fitFold(X [][]float64, y []int, folds []int, fold, li int, oof [][]float64) error {
	var trainX [][]float64
	var trainY []int
	var holdout []int
	for row := range X {
		if folds[row] == fold {
			holdout = append(holdout, row)
		} else {
			trainX = append(trainX, X[row])
			trainY = append(trainY, y[row])
		}
	}

	model, err := gbt.Train(trainX, trainY, e.Learners[li].Params)
	if err != nil {
		return errors.Wrapf(err, "fold %d learner %s", fold, e.Learners[li].Name)
	}
	for _, row := range holdout {
		prob, err := model.PredictProba(X[row])
		if err != nil {
			return errors.Wrapf(err, "fold %d learner %s", fold, e.Learners[li].Name)
		}
		oof[row][li] = prob
	}
	return nil
}

// PredictProba returns the stacked probability of escalation for one
// feature vector. The ensemble must be fitted.
func (e *Ensemble) PredictProba(x []float64) (float64, error) {
	if !e.Fitted || e.Meta == nil || len(e.Models) != len(e.Learners) {
		return 0, errors.Preconditionf("ensemble predict", "predict called before fit completed")
	}
	// base predictions are assembled in the learner order captured at fit
	// time
	feats := make([]float64, len(e.Models))
	for i, model := range e.Models {
		prob, err := model.PredictProba(x)
		if err != nil {
			return 0, errors.Wrapf(err, "base learner %s", e.Learners[i].Name)
		}
		feats[i] = prob
	}
	return e.Meta.Evaluate(feats)
}

// Predict thresholds PredictProba at 0.5.
func (e *Ensemble) Predict(x []float64) (int, error) {
	prob, err := e.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if prob >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// assignFolds deals rows into k folds after a seeded shuffle.
func assignFolds(n, k int, seed int64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	folds := make([]int, n)
	for pos, row := range order {
		folds[row] = pos % k
	}
	return folds
}
