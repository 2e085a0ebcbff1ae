// Package archive bundles generated artifacts into a single zip download.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Artifact is one file inside a bundle.
type Artifact struct {
	Filename string
	Data     []byte
}

// Bundle packs the artifacts into a zip archive.
func Bundle(artifacts []Artifact) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, artifact := range artifacts {
		w, err := zw.Create(artifact.Filename)
		if err != nil {
			return nil, fmt.Errorf("archive: add %s: %w", artifact.Filename, err)
		}
		if _, err := w.Write(artifact.Data); err != nil {
			return nil, fmt.Errorf("archive: write %s: %w", artifact.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalize: %w", err)
	}
	return buf.Bytes(), nil
}
