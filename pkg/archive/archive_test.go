package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestBundleRoundTrip(t *testing.T) {
	bundle, err := Bundle([]Artifact{
		{Filename: "a.png", Data: []byte("first")},
		{Filename: "b.png", Data: []byte("second")},
	})
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive holds %d files, want 2", len(zr.File))
	}
	want := map[string]string{"a.png": "first", "b.png": "second"}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if want[f.Name] != string(data) {
			t.Fatalf("file %s holds %q, want %q", f.Name, data, want[f.Name])
		}
	}
}

func TestBundleEmptyIsValidArchive(t *testing.T) {
	bundle, err := Bundle(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle))); err != nil {
		t.Fatal(err)
	}
}
