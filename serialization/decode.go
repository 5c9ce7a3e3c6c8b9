package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Decoder is an interface that matches gob.Decoder and json.Decoder
type Decoder interface {
	// Decode extracts an object from the stream
	Decode(interface{}) error
}

// Decode loads a single object from a file. If the path ends with .gz the
// contents are decompressed first; the encoding is then determined by the
// remaining extension, which can be .json or .gob.
func Decode(path string, obj interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error loading %s: %v", path, err)
	}
	defer f.Close()
	return DecodeFrom(f, path, obj)
}

// DecodeFrom is like Decode but reads from r, using path only to determine
// the compression and encoding of the stream.
func DecodeFrom(r io.Reader, path string, obj interface{}) error {
	ext := path
	if strings.HasSuffix(ext, ".gz") {
		ext = strings.TrimSuffix(ext, ".gz")
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("error loading %s: %v", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var d Decoder
	switch {
	case strings.HasSuffix(ext, ".json"):
		d = json.NewDecoder(r)
	case strings.HasSuffix(ext, ".gob"):
		d = gob.NewDecoder(r)
	default:
		return fmt.Errorf("could not find decoder for %s", path)
	}

	if err := d.Decode(obj); err != nil {
		return fmt.Errorf("error decoding %s: %v", path, err)
	}
	return nil
}
