package runstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListRuns(t *testing.T) {
	store := openStore(t)

	first := Run{StartedAt: time.Now(), F1: 0.81, AUC: 0.9, TP: 9, FP: 2, TN: 30, FN: 3}
	id1, err := store.SaveRun(first, []Prediction{
		{RowID: "c-1", Predicted: 1},
		{RowID: "c-2", Predicted: 0},
	})
	require.NoError(t, err)

	id2, err := store.SaveRun(Run{StartedAt: time.Now(), F1: 0.85, AUC: 0.93}, nil)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	assert.Equal(t, id2, runs[0].ID)
	assert.Equal(t, id1, runs[1].ID)
	assert.Equal(t, 0.81, runs[1].F1)
	assert.Equal(t, 9, runs[1].TP)
}

func TestPredictionsPerRun(t *testing.T) {
	store := openStore(t)

	id, err := store.SaveRun(Run{StartedAt: time.Now()}, []Prediction{
		{RowID: "a", Predicted: 0},
		{RowID: "b", Predicted: 1},
		{RowID: "c", Predicted: 1},
	})
	require.NoError(t, err)

	other, err := store.SaveRun(Run{StartedAt: time.Now()}, []Prediction{
		{RowID: "z", Predicted: 0},
	})
	require.NoError(t, err)

	preds, err := store.Predictions(id)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "a", preds[0].RowID)
	assert.Equal(t, 1, preds[1].Predicted)

	preds, err = store.Predictions(other)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "z", preds[0].RowID)
}

func TestEmptyStore(t *testing.T) {
	store := openStore(t)

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)

	preds, err := store.Predictions(99)
	require.NoError(t, err)
	assert.Empty(t, preds)
}
