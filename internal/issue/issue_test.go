// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	InputNotFoundId,
	AmbiguousInputId,
	ArchiveReadFailedId,
	ArchiveWriteFailedId,
	DocumentParseFailedId,
	FilesystemFailedId,
	ConfigLoadFailedId,
	PlanInvalidId,
	ResidualsFoundId,
}

func passthroughRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestId_Constants(t *testing.T) {
	t.Parallel()

	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}
	if InputNotFoundId != 1 {
		t.Errorf("InputNotFoundId = %d, want 1", InputNotFoundId)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{InputNotFoundId, "No managed solution found"},
		{AmbiguousInputId, "More than one managed solution"},
		{ArchiveReadFailedId, "Failed to read the archive"},
		{ArchiveWriteFailedId, "Failed to write the output archive"},
		{DocumentParseFailedId, "Failed to parse a manifest"},
		{FilesystemFailedId, "Filesystem operation failed"},
		{ConfigLoadFailedId, "Failed to load configuration"},
		{PlanInvalidId, "Invalid rename plan"},
		{ResidualsFoundId, "Old identifiers remain"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			got := Get(tt.id)
			if got == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if got.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", got.Id(), tt.id)
			}
			if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() should contain %q", tt.contains)
			}
		})
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	if got := len(Values()); got != len(allIds) {
		t.Errorf("Values() returned %d issues, want %d", got, len(allIds))
	}
}

// Render tests swap the package-level renderer and so do not run in parallel.

func TestIssue_Render_WithLinks(t *testing.T) {
	passthroughRender(t)

	i := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}
	rendered, err := i.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"See also", "<https://docs.example.com>", "<https://external.example.com>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() missing %q:\n%s", want, rendered)
		}
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	passthroughRender(t)

	i := &Issue{id: Id(9998), mdMsg: "# Test Issue"}
	rendered, err := i.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	i := &Issue{docLinks: []HttpLink{"a"}, extLinks: []HttpLink{"b"}}
	i.DocLinks()[0] = "changed"
	i.ExtLinks()[0] = "changed"
	if i.docLinks[0] != "a" || i.extLinks[0] != "b" {
		t.Error("link accessors should return clones")
	}
}

func TestAllIssuesRenderWithGlamour(t *testing.T) {
	for _, id := range allIds {
		out, err := Get(id).Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", id, err)
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered to empty string", id)
		}
	}
}
