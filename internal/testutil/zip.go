// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// WriteZip creates a ZIP file at path holding files (entry name -> content).
// Entries are written in sorted name order.
func WriteZip(t testing.TB, path string, files map[string]string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		w, createErr := zw.Create(name)
		if createErr != nil {
			t.Fatalf("failed to create entry %s: %v", name, createErr)
		}
		if _, writeErr := io.WriteString(w, files[name]); writeErr != nil {
			t.Fatalf("failed to write entry %s: %v", name, writeErr)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalise %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
}

// ReadZip returns the file entries of the ZIP at path (name -> content).
func ReadZip(t testing.TB, path string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil {
			t.Errorf("failed to close %s: %v", path, closeErr)
		}
	}()

	out := make(map[string]string, len(zr.File))
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, openErr := file.Open()
		if openErr != nil {
			t.Fatalf("failed to open entry %s: %v", file.Name, openErr)
		}
		data, readErr := io.ReadAll(rc)
		_ = rc.Close()
		if readErr != nil {
			t.Fatalf("failed to read entry %s: %v", file.Name, readErr)
		}
		out[file.Name] = string(data)
	}
	return out
}
