// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath and the os
// filesystem calls that the repackaging pipeline performs. Mutating helpers
// report failures as *FilesystemError so callers can classify them with
// errors.Is(err, ErrFilesystem).
package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/solpack/solpack/pkg/types"
)

// ErrFilesystem is the sentinel error wrapped by FilesystemError.
var ErrFilesystem = errors.New("filesystem error")

// FilesystemError describes a failed move, mkdir or removal.
type FilesystemError struct {
	Op   string
	Path types.FilesystemPath
	Err  error
}

// Error implements the error interface.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns both ErrFilesystem and the underlying cause.
func (e *FilesystemError) Unwrap() []error { return []error{ErrFilesystem, e.Err} }

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr joins a typed base path with raw string segments.
// Segments may use forward slashes; they are converted to the host separator.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	for _, e := range elem {
		parts = append(parts, filepath.FromSlash(e))
	}
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// RelSlash returns target relative to base using forward slashes.
func RelSlash(base, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Exists reports whether p exists (file or directory).
func Exists(p types.FilesystemPath) bool {
	_, err := os.Stat(string(p))
	return err == nil
}

// IsFile reports whether p exists and is a regular file.
func IsFile(p types.FilesystemPath) bool {
	info, err := os.Stat(string(p))
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether p exists and is a directory.
func IsDir(p types.FilesystemPath) bool {
	info, err := os.Stat(string(p))
	return err == nil && info.IsDir()
}

// MkdirAll creates p and any missing parents.
func MkdirAll(p types.FilesystemPath) error {
	if err := os.MkdirAll(string(p), 0o755); err != nil {
		return &FilesystemError{Op: "create directory", Path: p, Err: err}
	}
	return nil
}

// RemoveAll deletes p recursively. A missing p is not an error.
func RemoveAll(p types.FilesystemPath) error {
	if err := os.RemoveAll(string(p)); err != nil {
		return &FilesystemError{Op: "remove", Path: p, Err: err}
	}
	return nil
}


// Move renames src to dst, creating the parent of dst first.
// An existing dst is an error; moves never overwrite.
func Move(src, dst types.FilesystemPath) error {
	if Exists(dst) {
		return &FilesystemError{Op: "move", Path: dst, Err: fs.ErrExist}
	}
	if err := MkdirAll(Dir(dst)); err != nil {
		return err
	}
	if err := os.Rename(string(src), string(dst)); err != nil {
		return &FilesystemError{Op: "move", Path: src, Err: err}
	}
	return nil
}
