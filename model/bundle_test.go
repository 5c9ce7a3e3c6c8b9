package model

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/escalate/embedding"
	"github.com/caseflow/escalate/ensemble"
	"github.com/caseflow/escalate/features"
	"github.com/caseflow/escalate/gbt"
	"github.com/caseflow/escalate/serialization"
	"github.com/caseflow/escalate/text"
	"github.com/caseflow/escalate/tfidf"
)

func buildBundle(t *testing.T) *Bundle {
	t.Helper()

	docs := []text.Tokens{
		{"refund", "delay", "charge", "refund"},
		{"refund", "agent", "charge", "agent"},
		{"card", "charge", "delay", "charge"},
		{"agent", "refund", "delay", "card"},
	}

	table, err := embedding.Train(docs, embedding.Config{Dim: 4, Window: 3, MinCount: 2})
	require.NoError(t, err)
	vocab := tfidf.Fit(docs, 500)

	layout := features.NewLayout(table.Dim, vocab.Width())
	width := layout.Width()

	rng := rand.New(rand.NewSource(9))
	var X [][]float64
	var y []int
	for i := 0; i < 40; i++ {
		row := make([]float64, width)
		for j := range row {
			row[j] = rng.Float64()
		}
		X = append(X, row)
		if row[0] > 0.5 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}

	scaler, err := features.FitScaler(X)
	require.NoError(t, err)

	p := gbt.Params{Trees: 5, MaxDepth: 2, MinLeaf: 2, LearningRate: 0.2, L2: 1}
	stack, err := ensemble.New([]ensemble.NamedLearner{
		{Name: "gbt-shallow", Params: p},
		{Name: "gbt-deep", Params: p},
	})
	require.NoError(t, err)
	require.NoError(t, stack.Fit(X, y, 4, 1))

	return &Bundle{
		Version:           Version,
		Layout:            layout,
		TypeEncoding:      features.FitLabels([]string{"billing", "service"}),
		FrequencyEncoding: features.FitLabels([]string{"daily", "monthly"}),
		Embeddings:        table,
		Vocabulary:        vocab,
		Scaler:            scaler,
		Ensemble:          stack,
	}
}

func TestBundleSaveLoadRoundTrip(t *testing.T) {
	b := buildBundle(t)
	path := filepath.Join(t.TempDir(), "bundle.gob.gz")

	require.NoError(t, b.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())

	assert.Equal(t, b.Layout, loaded.Layout)
	assert.Equal(t, b.Vocabulary.Terms, loaded.Vocabulary.Terms)
	assert.Equal(t, b.Ensemble.Names(), loaded.Ensemble.Names())

	// the loaded ensemble predicts identically to the original
	x := make([]float64, b.Layout.Width())
	want, err := b.Ensemble.PredictProba(x)
	require.NoError(t, err)
	got, err := loaded.Ensemble.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBundleMissingMemberFailsLoad(t *testing.T) {
	b := buildBundle(t)
	b.Vocabulary = nil

	path := filepath.Join(t.TempDir(), "partial.gob.gz")
	// write around Save's validation to simulate a corrupt artifact
	require.NoError(t, serialization.Encode(path, b))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lexical vocabulary")
}

func TestBundleSaveRefusesIncomplete(t *testing.T) {
	b := buildBundle(t)
	b.Scaler = nil

	err := b.Save(filepath.Join(t.TempDir(), "bundle.gob.gz"))
	require.Error(t, err)
}

func TestBundleVersionMismatch(t *testing.T) {
	b := buildBundle(t)
	b.Version = Version + 1

	path := filepath.Join(t.TempDir(), "versioned.gob.gz")
	require.NoError(t, serialization.Encode(path, b))

	_, err := Load(path)
	require.Error(t, err)
}
