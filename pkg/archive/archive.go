// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/types"
)

// Entry is one file stored in a container.
type Entry struct {
	// Name is the forward-slash path relative to the container root.
	Name string
	// Data is the uncompressed content.
	Data []byte
}

// Extract writes every entry of the container at archivePath under destDir,
// recreating intermediate directories. destDir is created if missing; the
// caller is responsible for it being clean.
func Extract(archivePath, destDir types.FilesystemPath) (err error) {
	zr, err := zip.OpenReader(string(archivePath))
	if err != nil {
		return &ReadError{Path: archivePath, Err: err}
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = &ReadError{Path: archivePath, Err: closeErr}
		}
	}()

	absDest, err := fspath.Abs(destDir)
	if err != nil {
		return &ReadError{Path: archivePath, Err: err}
	}
	if err := fspath.MkdirAll(absDest); err != nil {
		return err
	}

	for _, file := range zr.File {
		name := normalizeName(file.Name)
		if name == "" {
			continue
		}

		destPath := fspath.JoinStr(absDest, name)

		// Entries must stay inside the destination.
		rel, relErr := filepath.Rel(string(absDest), string(destPath))
		if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return &ReadError{Path: archivePath, Entry: file.Name, Err: fmt.Errorf("entry escapes destination")}
		}

		if file.FileInfo().IsDir() || strings.HasSuffix(file.Name, "/") {
			if err := fspath.MkdirAll(destPath); err != nil {
				return err
			}
			continue
		}

		if err := fspath.MkdirAll(fspath.Dir(destPath)); err != nil {
			return err
		}
		if err := extractFile(file, destPath); err != nil {
			return &ReadError{Path: archivePath, Entry: file.Name, Err: err}
		}
	}

	return nil
}

// Pack writes every regular file under sourceDir into a new container at
// destArchivePath, one deflate entry per file, in lexicographic path order.
// Missing parent directories of destArchivePath are created. On failure the
// partially written container is removed.
func Pack(destArchivePath, sourceDir types.FilesystemPath) (err error) {
	names, err := walkFiles(sourceDir)
	if err != nil {
		return &WriteError{Path: destArchivePath, Err: err}
	}

	if err := fspath.MkdirAll(fspath.Dir(destArchivePath)); err != nil {
		return &WriteError{Path: destArchivePath, Err: err}
	}

	out, err := os.Create(string(destArchivePath))
	if err != nil {
		return &WriteError{Path: destArchivePath, Err: err}
	}
	defer func() {
		if err != nil {
			_ = os.Remove(string(destArchivePath)) // no partial artifacts
		}
	}()
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &WriteError{Path: destArchivePath, Err: closeErr}
		}
	}()

	zw := zip.NewWriter(out)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = &WriteError{Path: destArchivePath, Err: closeErr}
		}
	}()

	for _, name := range names {
		if err := addFile(zw, fspath.JoinStr(sourceDir, name), name); err != nil {
			return &WriteError{Path: destArchivePath, Err: fmt.Errorf("add %s: %w", name, err)}
		}
	}

	return nil
}

// List returns the file entry names of the container in stored order.
// Directory entries are omitted.
func List(archivePath types.FilesystemPath) (names []string, err error) {
	err = Walk(archivePath, func(e Entry) error {
		names = append(names, e.Name)
		return nil
	})
	return names, err
}

// ReadAll returns every file entry of the container in stored order.
func ReadAll(archivePath types.FilesystemPath) (entries []Entry, err error) {
	err = Walk(archivePath, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// Walk calls fn for every file entry of the container in stored order.
// An error returned by fn stops the walk and is returned unchanged.
func Walk(archivePath types.FilesystemPath, fn func(Entry) error) (err error) {
	zr, err := zip.OpenReader(string(archivePath))
	if err != nil {
		return &ReadError{Path: archivePath, Err: err}
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = &ReadError{Path: archivePath, Err: closeErr}
		}
	}()

	for _, file := range zr.File {
		if file.FileInfo().IsDir() || strings.HasSuffix(file.Name, "/") {
			continue
		}
		data, readErr := readFile(file)
		if readErr != nil {
			return &ReadError{Path: archivePath, Entry: file.Name, Err: readErr}
		}
		if err := fn(Entry{Name: normalizeName(file.Name), Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// walkFiles returns the forward-slash relative paths of every regular file
// under root, sorted lexicographically.
func walkFiles(root types.FilesystemPath) ([]string, error) {
	var names []string
	err := filepath.WalkDir(string(root), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := fspath.RelSlash(root, types.FilesystemPath(path))
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// addFile stores one file under name using deflate compression.
func addFile(zw *zip.Writer, path types.FilesystemPath, name string) (err error) {
	info, err := os.Stat(string(path))
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry: %w", err)
	}

	in, err := os.Open(string(path))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(w, in)
	return err
}

// extractFile copies a single entry to destPath.
func extractFile(file *zip.File, destPath types.FilesystemPath) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(string(destPath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: solution archives come from the operator's own input folder
	_, err = io.Copy(out, rc)
	return err
}

func readFile(file *zip.File) (data []byte, err error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return io.ReadAll(rc)
}

// normalizeName converts backslash separators written by some Windows tools
// and strips any leading slash.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.TrimLeft(name, "/")
}
