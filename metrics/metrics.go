// Package metrics computes the binary-classification diagnostics reported
// by the training pipeline.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Confusion is a binary confusion matrix.
type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// ConfusionMatrix tallies predictions against actual labels.
func ConfusionMatrix(actual, predicted []int) Confusion {
	var c Confusion
	for i := range actual {
		switch {
		case actual[i] == 1 && predicted[i] == 1:
			c.TP++
		case actual[i] == 0 && predicted[i] == 1:
			c.FP++
		case actual[i] == 0 && predicted[i] == 0:
			c.TN++
		default:
			c.FN++
		}
	}
	return c
}

// Precision is TP / (TP + FP), or 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall is TP / (TP + FN), or 0 when there are no positives.
func (c Confusion) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// F1 scores predictions against actual labels.
func F1(actual, predicted []int) float64 {
	return ConfusionMatrix(actual, predicted).F1()
}

// AUC computes the area under the ROC curve for the given positive-class
// scores. Degenerate inputs (a single class) return 0.5.
func AUC(actual []int, scores []float64) float64 {
	var pos, neg int
	for _, label := range actual {
		if label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}

	type pair struct {
		score float64
		pos   bool
	}
	pairs := make([]pair, len(actual))
	for i := range actual {
		pairs[i] = pair{score: scores[i], pos: actual[i] == 1}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	y := make([]float64, len(pairs))
	classes := make([]bool, len(pairs))
	for i, p := range pairs {
		y[i] = p.score
		classes[i] = p.pos
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}
