// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/solpack/solpack/pkg/types"
)

var (
	// ErrDocumentParse is the sentinel error wrapped by ParseError.
	ErrDocumentParse = errors.New("document parse failed")
	// ErrDocumentWrite is returned when a rewritten document cannot be saved.
	ErrDocumentWrite = errors.New("document write failed")
)

// ParseError is returned when a manifest that exists cannot be read or is
// not well-formed XML.
type ParseError struct {
	Path types.FilesystemPath
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrDocumentParse and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrDocumentParse, e.Err} }
