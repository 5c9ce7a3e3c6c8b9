package gbt

import (
	"math"
	"sort"

	"github.com/caseflow/escalate/errors"
)

// Params bounds a boosted-tree fit. All fields are searched by the tuner.
type Params struct {
	// Trees is the number of boosting rounds.
	Trees int `json:"trees"`
	// MaxDepth bounds the depth of every tree.
	MaxDepth int `json:"max_depth"`
	// MinLeaf is the minimum number of samples in a leaf.
	MinLeaf int `json:"min_leaf"`
	// LearningRate shrinks each tree's contribution.
	LearningRate float64 `json:"learning_rate"`
	// L1 soft-thresholds leaf gradients.
	L1 float64 `json:"l1"`
	// L2 is added to leaf hessians.
	L2 float64 `json:"l2"`
}

// DefaultParams are a reasonable untuned starting point.
func DefaultParams() Params {
	return Params{
		Trees:        100,
		MaxDepth:     3,
		MinLeaf:      5,
		LearningRate: 0.1,
		L1:           0,
		L2:           1,
	}
}

// Model is a fitted gradient-boosted tree classifier.
type Model struct {
	Params      Params  `json:"params"`
	BaseScore   float64 `json:"base_score"`
	Trees       []Tree  `json:"trees"`
	FeatureSize int     `json:"feature_size"`
}

// Train fits a boosted ensemble with logistic loss. The fit is
// deterministic: no row or feature subsampling is performed.
func Train(X [][]float64, y []int, p Params) (*Model, error) {
	if len(X) == 0 {
		return nil, errors.Preconditionf("gbt train", "empty training matrix")
	}
	if len(X) != len(y) {
		return nil, errors.ShapeMismatchf("labels", len(X), len(y))
	}
	if p.Trees <= 0 || p.MaxDepth <= 0 {
		return nil, errors.Preconditionf("gbt train", "invalid params: %d trees, depth %d", p.Trees, p.MaxDepth)
	}
	if p.MinLeaf < 1 {
		p.MinLeaf = 1
	}

	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return nil, errors.ShapeMismatchf("training row", width, len(X[i]))
		}
	}

	model := &Model{
		Params:      p,
		BaseScore:   baseScore(y),
		FeatureSize: width,
	}

	// raw holds the current additive prediction for every row
	raw := make([]float64, len(X))
	for i := range raw {
		raw[i] = model.BaseScore
	}

	grad := make([]float64, len(X))
	hess := make([]float64, len(X))
	rows := make([]int, len(X))
	for i := range rows {
		rows[i] = i
	}

	for round := 0; round < p.Trees; round++ {
		for i := range X {
			prob := sigmoid(raw[i])
			grad[i] = float64(y[i]) - prob
			hess[i] = prob * (1 - prob)
		}

		b := &builder{X: X, grad: grad, hess: hess, p: p, featureSize: width}
		tree := b.fit(rows)
		model.Trees = append(model.Trees, tree)

		for i := range X {
			raw[i] += tree.Evaluate(X[i])
		}
	}
	return model, nil
}

// Raw returns the unsquashed additive score for a feature vector.
func (m *Model) Raw(x []float64) float64 {
	sum := m.BaseScore
	for i := range m.Trees {
		sum += m.Trees[i].Evaluate(x)
	}
	return sum
}

// PredictProba returns the probability of the positive class.
func (m *Model) PredictProba(x []float64) (float64, error) {
	if len(x) != m.FeatureSize {
		return 0, errors.ShapeMismatchf("gbt input", m.FeatureSize, len(x))
	}
	return sigmoid(m.Raw(x)), nil
}

// Predict thresholds PredictProba at 0.5.
func (m *Model) Predict(x []float64) (int, error) {
	prob, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if prob >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// baseScore is the log-odds of the positive rate, clamped away from the
// degenerate all-one-class cases.
func baseScore(y []int) float64 {
	var pos int
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	rate := float64(pos) / float64(len(y))
	const eps = 1e-6
	if rate < eps {
		rate = eps
	}
	if rate > 1-eps {
		rate = 1 - eps
	}
	return math.Log(rate / (1 - rate))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// builder grows one regression tree on the current gradients.
type builder struct {
	X           [][]float64
	grad        []float64
	hess        []float64
	p           Params
	featureSize int

	nodes   []Node
	outputs []float64
	depth   int
}

func (b *builder) fit(rows []int) Tree {
	rootIdx, rootIsLeaf := b.grow(rows, 0)
	if rootIsLeaf {
		// the flat representation needs at least one decision node; emit
		// one whose branches agree
		b.nodes = append(b.nodes, Node{
			FeatureIndex: 0,
			Threshold:    math.Inf(1),
			LeftChild:    rootIdx,
			LeftIsLeaf:   true,
			RightChild:   rootIdx,
			RightIsLeaf:  true,
		})
		b.depth = 1
	} else if rootIdx != 0 {
		panic("root node must be first")
	}
	return Tree{
		Nodes:       b.nodes,
		Outputs:     b.outputs,
		FeatureSize: b.featureSize,
		Depth:       b.depth,
	}
}

// grow returns either a node index (isLeaf false) or an output index
// (isLeaf true) for the subtree covering rows.
func (b *builder) grow(rows []int, depth int) (int, bool) {
	if depth+1 > b.depth {
		b.depth = depth + 1
	}
	if depth >= b.p.MaxDepth || len(rows) < 2*b.p.MinLeaf {
		return b.leaf(rows), true
	}

	split, found := b.bestSplit(rows)
	if !found {
		return b.leaf(rows), true
	}

	var left, right []int
	for _, row := range rows {
		if b.X[row][split.feature] < split.threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	// reserve our slot before descending so the root lands at index 0
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{FeatureIndex: split.feature, Threshold: split.threshold})

	leftIdx, leftIsLeaf := b.grow(left, depth+1)
	rightIdx, rightIsLeaf := b.grow(right, depth+1)
	b.nodes[idx].LeftChild = leftIdx
	b.nodes[idx].LeftIsLeaf = leftIsLeaf
	b.nodes[idx].RightChild = rightIdx
	b.nodes[idx].RightIsLeaf = rightIsLeaf
	return idx, false
}

func (b *builder) leaf(rows []int) int {
	var g, h float64
	for _, row := range rows {
		g += b.grad[row]
		h += b.hess[row]
	}
	value := b.p.LearningRate * softThreshold(g, b.p.L1) / (h + b.p.L2)
	b.outputs = append(b.outputs, value)
	return len(b.outputs) - 1
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

// bestSplit scans every feature for the threshold with the highest gain.
// Ties keep the earliest feature and lowest threshold, so the fit does not
// depend on map iteration or scheduling order.
func (b *builder) bestSplit(rows []int) (split, bool) {
	var totalG, totalH float64
	for _, row := range rows {
		totalG += b.grad[row]
		totalH += b.hess[row]
	}
	parentScore := gainTerm(totalG, totalH, b.p)

	best := split{gain: 1e-12}
	var found bool

	type sample struct {
		value float64
		g, h  float64
	}
	samples := make([]sample, len(rows))

	for feature := 0; feature < b.featureSize; feature++ {
		for i, row := range rows {
			samples[i] = sample{value: b.X[row][feature], g: b.grad[row], h: b.hess[row]}
		}
		sort.Slice(samples, func(i, j int) bool { return samples[i].value < samples[j].value })

		var leftG, leftH float64
		for i := 0; i < len(samples)-1; i++ {
			leftG += samples[i].g
			leftH += samples[i].h
			if samples[i].value == samples[i+1].value {
				continue
			}
			leftCount := i + 1
			rightCount := len(samples) - leftCount
			if leftCount < b.p.MinLeaf || rightCount < b.p.MinLeaf {
				continue
			}
			gain := gainTerm(leftG, leftH, b.p) + gainTerm(totalG-leftG, totalH-leftH, b.p) - parentScore
			if gain > best.gain {
				best = split{
					feature:   feature,
					threshold: (samples[i].value + samples[i+1].value) / 2,
					gain:      gain,
				}
				found = true
			}
		}
	}
	return best, found
}

func gainTerm(g, h float64, p Params) float64 {
	g = softThreshold(g, p.L1)
	return g * g / (h + p.L2)
}

func softThreshold(g, l1 float64) float64 {
	switch {
	case g > l1:
		return g - l1
	case g < -l1:
		return g + l1
	default:
		return 0
	}
}
