// SPDX-License-Identifier: MPL-2.0

package repackage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solpack/solpack/pkg/types"
)

var (
	// ErrInputNotFound is the sentinel error wrapped by InputNotFoundError.
	ErrInputNotFound = errors.New("managed archive not found")
	// ErrAmbiguousInput is the sentinel error wrapped by AmbiguousInputError.
	ErrAmbiguousInput = errors.New("more than one managed archive")
)

type (
	// InputNotFoundError is returned when no managed archive can be found.
	InputNotFoundError struct {
		Dir     types.FilesystemPath
		Pattern string
	}

	// AmbiguousInputError is returned when several managed archives match
	// and none was selected explicitly.
	AmbiguousInputError struct {
		Dir        types.FilesystemPath
		Candidates []string
	}

	// StageError reports the stage in which a run failed.
	StageError struct {
		Stage Stage
		Err   error
	}
)

// Error implements the error interface.
func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("no %s file found in %s", e.Pattern, e.Dir)
}

// Unwrap returns ErrInputNotFound for errors.Is() compatibility.
func (e *InputNotFoundError) Unwrap() error { return ErrInputNotFound }

// Error implements the error interface.
func (e *AmbiguousInputError) Error() string {
	return fmt.Sprintf("%d managed archives in %s (%s); select one explicitly",
		len(e.Candidates), e.Dir, strings.Join(e.Candidates, ", "))
}

// Unwrap returns ErrAmbiguousInput for errors.Is() compatibility.
func (e *AmbiguousInputError) Unwrap() error { return ErrAmbiguousInput }

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the stage's underlying error.
func (e *StageError) Unwrap() error { return e.Err }
