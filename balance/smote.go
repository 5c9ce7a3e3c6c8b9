// Package balance corrects label imbalance at training time by
// synthesizing minority-class samples through nearest-neighbor
// interpolation.
package balance

import (
	"math"
	"math/rand"
	"sort"

	"github.com/caseflow/escalate/errors"
)

// neighborCount is how many nearest minority neighbors a synthetic sample
// may interpolate toward.
const neighborCount = 5

// Oversample synthesizes minority-class rows until the minority-to-majority
// ratio reaches approximately the target. Majority rows and the original
// minority rows are returned unchanged, followed by the synthetic rows.
// Results are deterministic for a fixed seed.
func Oversample(X [][]float64, y []int, ratio float64, seed int64) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, errors.ShapeMismatchf("labels", len(X), len(y))
	}
	if ratio <= 0 || ratio > 1 {
		return nil, nil, errors.Preconditionf("oversample", "target ratio %v outside (0, 1]", ratio)
	}

	minorityLabel, _ := splitLabels(y)
	var minority [][]float64
	var majorityCount int
	for i, label := range y {
		if label == minorityLabel {
			minority = append(minority, X[i])
		} else {
			majorityCount++
		}
	}

	if len(minority) < 2 {
		return nil, nil, errors.Preconditionf("oversample",
			"minority class has %d samples, need at least 2", len(minority))
	}

	target := int(math.Round(ratio * float64(majorityCount)))
	need := target - len(minority)
	if need <= 0 {
		return X, y, nil
	}

	neighbors := nearestNeighbors(minority)
	rng := rand.New(rand.NewSource(seed))

	outX := make([][]float64, len(X), len(X)+need)
	copy(outX, X)
	outY := make([]int, len(y), len(y)+need)
	copy(outY, y)

	for n := 0; n < need; n++ {
		i := rng.Intn(len(minority))
		peers := neighbors[i]
		j := peers[rng.Intn(len(peers))]
		gap := rng.Float64()

		base := minority[i]
		other := minority[j]
		synth := make([]float64, len(base))
		for col := range base {
			synth[col] = base[col] + gap*(other[col]-base[col])
		}
		outX = append(outX, synth)
		outY = append(outY, minorityLabel)
	}
	return outX, outY, nil
}

// splitLabels decides which binary label is the minority. Ties count the
// positive label as the minority.
func splitLabels(y []int) (minority, majority int) {
	var ones int
	for _, label := range y {
		if label == 1 {
			ones++
		}
	}
	if ones <= len(y)-ones {
		return 1, 0
	}
	return 0, 1
}

// nearestNeighbors returns, for every minority row, the indices of its
// closest minority rows by euclidean distance (excluding itself), capped at
// neighborCount.
func nearestNeighbors(rows [][]float64) [][]int {
	out := make([][]int, len(rows))
	for i := range rows {
		type cand struct {
			index int
			dist  float64
		}
		cands := make([]cand, 0, len(rows)-1)
		for j := range rows {
			if i == j {
				continue
			}
			cands = append(cands, cand{index: j, dist: euclidean(rows[i], rows[j])})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].index < cands[b].index
		})
		k := neighborCount
		if len(cands) < k {
			k = len(cands)
		}
		picked := make([]int, k)
		for n := 0; n < k; n++ {
			picked[n] = cands[n].index
		}
		out[i] = picked
	}
	return out
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
