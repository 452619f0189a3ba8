// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"

	"github.com/solpack/solpack/pkg/types"
)

var (
	// ErrArchiveRead is the sentinel error wrapped by ReadError.
	ErrArchiveRead = errors.New("archive read failed")
	// ErrArchiveWrite is the sentinel error wrapped by WriteError.
	ErrArchiveWrite = errors.New("archive write failed")
)

type (
	// ReadError is returned when a container cannot be opened, is not a valid
	// ZIP file, or one of its entries cannot be extracted.
	ReadError struct {
		Path  types.FilesystemPath
		Entry string
		Err   error
	}

	// WriteError is returned when a container cannot be created or written.
	WriteError struct {
		Path types.FilesystemPath
		Err  error
	}
)

// Error implements the error interface.
func (e *ReadError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("read archive %s: entry %s: %v", e.Path, e.Entry, e.Err)
	}
	return fmt.Sprintf("read archive %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrArchiveRead and the underlying cause.
func (e *ReadError) Unwrap() []error { return []error{ErrArchiveRead, e.Err} }

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write archive %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrArchiveWrite and the underlying cause.
func (e *WriteError) Unwrap() []error { return []error{ErrArchiveWrite, e.Err} }
