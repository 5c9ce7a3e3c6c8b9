package serialization

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name    string
	Weights []float64
}

func TestRoundTripByExtension(t *testing.T) {
	dir := t.TempDir()
	in := payload{Name: "scaler", Weights: []float64{1.5, -2, 0}}

	for _, name := range []string{"obj.json", "obj.gob", "obj.json.gz", "obj.gob.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Encode(path, in), name)

		var out payload
		require.NoError(t, Decode(path, &out), name)
		assert.Equal(t, in, out, name)
	}
}

func TestUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.yaml")
	assert.Error(t, Encode(path, payload{}))
}

func TestDecodeMissingFile(t *testing.T) {
	var out payload
	assert.Error(t, Decode(filepath.Join(t.TempDir(), "absent.json"), &out))
}
