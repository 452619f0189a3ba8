// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/internal/issue"
	"github.com/solpack/solpack/internal/repackage"
	"github.com/solpack/solpack/pkg/archive"
	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/manifest"
	"github.com/solpack/solpack/pkg/renameplan"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, scheme config.ColorScheme) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(glamourStyle(scheme))
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// glamourStyle maps the configured color scheme to a glamour standard style.
// Auto falls back to dark.
func glamourStyle(scheme config.ColorScheme) string {
	if scheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// classifyError maps a run failure to an issue catalog ID and returns a
// styled message for CLI rendering. Explicit issue IDs on an ActionableError
// take precedence over the sentinel mapping.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &ae) && ae.Issue != 0:
		issueID = ae.Issue
	case errors.Is(err, repackage.ErrInputNotFound):
		issueID = issue.InputNotFoundId
	case errors.Is(err, repackage.ErrAmbiguousInput):
		issueID = issue.AmbiguousInputId
	case errors.Is(err, manifest.ErrDocumentParse):
		issueID = issue.DocumentParseFailedId
	case errors.Is(err, archive.ErrArchiveRead):
		issueID = issue.ArchiveReadFailedId
	case errors.Is(err, archive.ErrArchiveWrite):
		issueID = issue.ArchiveWriteFailedId
	case errors.Is(err, renameplan.ErrInvalidPlan), errors.Is(err, renameplan.ErrUnsupportedFormat):
		issueID = issue.PlanInvalidId
	case errors.Is(err, config.ErrInvalidConfig):
		issueID = issue.ConfigLoadFailedId
	case errors.Is(err, fspath.ErrFilesystem):
		issueID = issue.FilesystemFailedId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}
