// SPDX-License-Identifier: MPL-2.0

package renameplan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPlan is the sentinel error wrapped by InvalidPlanError.
	ErrInvalidPlan = errors.New("invalid rename plan")
	// ErrDuplicateRule is returned when two substitutions in one scope share
	// an old value.
	ErrDuplicateRule = errors.New("duplicate rename rule")
	// ErrUnsupportedFormat is returned for plan files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported plan format")
)

// InvalidPlanError collects every problem found while compiling a Spec.
type InvalidPlanError struct {
	Source   string
	Problems []error
}

// Error implements the error interface.
func (e *InvalidPlanError) Error() string {
	var b strings.Builder
	b.WriteString("invalid rename plan")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if len(e.Problems) == 1 {
		fmt.Fprintf(&b, ": %v", e.Problems[0])
		return b.String()
	}
	fmt.Fprintf(&b, ": %d problems", len(e.Problems))
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "\n  - %v", p)
	}
	return b.String()
}

// Unwrap returns ErrInvalidPlan followed by the individual problems.
func (e *InvalidPlanError) Unwrap() []error {
	return append([]error{ErrInvalidPlan}, e.Problems...)
}
