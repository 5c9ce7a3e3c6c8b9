package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escalate.yaml")
	body := []byte("training:\n  embeddingDim: 50\n  folds: 3\nserving:\n  addr: \":9000\"\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Training.EmbeddingDim)
	assert.Equal(t, 3, cfg.Training.Folds)
	assert.Equal(t, ":9000", cfg.Serving.Addr)
	// untouched fields keep their defaults
	assert.Equal(t, 500, cfg.Training.VocabularySize)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escalate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training:\n  balanceRatio: 7\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
