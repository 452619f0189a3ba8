// SPDX-License-Identifier: MPL-2.0

package repackage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/solpack/solpack/internal/testutil"
	"github.com/solpack/solpack/pkg/archive"
	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/manifest"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

const inputName = "SecurityRoleManager_1.2.3_managed.zip"

type env struct {
	base   string
	opts   Options
	logBuf *bytes.Buffer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	base := t.TempDir()
	buf := &bytes.Buffer{}
	return &env{
		base:   base,
		logBuf: buf,
		opts: Options{
			InputDir:     types.FilesystemPath(filepath.Join(base, "Input")),
			OutputDir:    types.FilesystemPath(filepath.Join(base, "Packaged Solutions")),
			WorkspaceDir: types.FilesystemPath(filepath.Join(base, "Temporary")),
			Logger:       log.NewWithOptions(buf, log.Options{Level: log.DebugLevel}),
		},
	}
}

func (e *env) writeInput(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(string(e.opts.InputDir), name)
	testutil.WriteZip(t, path, files)
	return path
}

func (e *env) outputPath() string {
	return filepath.Join(string(e.opts.OutputDir), "SecurityRoleManager_1.2.3_unmanaged.zip")
}

func (e *env) run(t *testing.T) (*Result, error) {
	t.Helper()
	return Run(context.Background(), e.opts)
}

func mustRun(t *testing.T, e *env) (*Result, map[string]string) {
	t.Helper()
	res, err := e.run(t)
	if err != nil {
		t.Fatalf("Run() failed: %v\nlog:\n%s", err, e.logBuf)
	}
	return res, testutil.ReadZip(t, string(res.Output))
}

func outputFiles(t *testing.T, dir types.FilesystemPath) []string {
	t.Helper()
	entries, err := os.ReadDir(string(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("ReadDir(%s) failed: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_SecurityRoleManagerScenario(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeInput(t, inputName, testutil.ManagedSolutionFiles())

	res, out := mustRun(t, e)

	if string(res.Output) != e.outputPath() {
		t.Errorf("Output = %s, want %s", res.Output, e.outputPath())
	}
	if res.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", res.Version)
	}
	if res.Stage != StageDone {
		t.Errorf("Stage = %s, want done", res.Stage)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}

	sol := out["solution.xml"]
	for _, want := range []string{
		"<UniqueName>SecurityRoleManager</UniqueName>",
		"<Managed>0</Managed>",
		`<?xml version="1.0" encoding="utf-8"?>`,
	} {
		if !strings.Contains(sol, want) {
			t.Errorf("solution.xml lacks %s:\n%s", want, sol)
		}
	}

	if _, err := os.Stat(string(e.opts.WorkspaceDir)); !errors.Is(err, os.ErrNotExist) {
		t.Error("workspace was not cleaned up")
	}
	if !strings.Contains(e.logBuf.String(), "created unmanaged solution") {
		t.Errorf("missing final progress line in log:\n%s", e.logBuf)
	}
	if len(res.Edits()) == 0 {
		t.Error("Edits() is empty")
	}
}

func TestRun_Completeness(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeInput(t, inputName, testutil.ManagedSolutionFiles())
	res, out := mustRun(t, e)

	plan, err := renameplan.Default()
	if err != nil {
		t.Fatalf("renameplan.Default() failed: %v", err)
	}
	for name, content := range out {
		if found := plan.Residuals(name); len(found) > 0 {
			t.Errorf("entry path %s still contains %v", name, found)
		}
		if found := plan.Residuals(content); len(found) > 0 {
			t.Errorf("entry %s content still contains %v", name, found)
		}
	}
	if len(res.Residuals) != 0 {
		t.Errorf("Residuals = %v, want none", res.Residuals)
	}
}

func TestRun_NonInterference(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	in := testutil.ManagedSolutionFiles()
	e.writeInput(t, inputName, in)
	_, out := mustRun(t, e)

	for _, name := range []string{"[Content_Types].xml", "Other/Readme.txt"} {
		got, ok := out[name]
		if !ok {
			t.Errorf("untouched entry %s missing from output", name)
			continue
		}
		if got != in[name] {
			t.Errorf("untouched entry %s changed:\n got %q\nwant %q", name, got, in[name])
		}
	}
	if got := out["Controls/SecurityRoleManager/bundle.js"]; got != in["Controls/cn_Cathal.SecurityRoleManager/bundle.js"] {
		t.Errorf("control bundle content changed: %q", got)
	}
	if len(out) != len(in) {
		t.Errorf("output has %d entries, input %d", len(out), len(in))
	}
}

func TestRun_WebResourceFlattened(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	in := testutil.ManagedSolutionFiles()
	e.writeInput(t, inputName, in)
	_, out := mustRun(t, e)

	if got, ok := out["WebResources/ewwp_bundle.js.map"]; !ok || got != in["WebResources/cc_Cathal.SecurityRoleManager/bundle.js.map"] {
		t.Errorf("flattened web resource = %q (present %v)", got, ok)
	}
	for name := range out {
		if strings.HasPrefix(name, "WebResources/cc_Cathal.SecurityRoleManager/") {
			t.Errorf("old web resource folder entry %s in output", name)
		}
	}
	if !strings.Contains(out["customizations.xml"], "<FileName>/WebResources/ewwp_bundle.js.map</FileName>") {
		t.Errorf("registry not updated:\n%s", out["customizations.xml"])
	}
}

// A plan whose web resource lives under the control identifier folder
// flattens that folder instead.
func TestRun_WebResourceUnderControlIdentifier(t *testing.T) {
	t.Parallel()

	plan, err := renameplan.Parse([]byte(`product: SecurityRoleManager
solution:
  unique_name: {new: SecurityRoleManager}
  display_name: {new: Security Role Manager}
components:
  - {old: cn_Cathal.SecurityRoleManager, new: ewwp.SecurityRoleManager}
paths:
  web_resource:
    old: cn_Cathal.SecurityRoleManager/bundle.js.map
    new: ewwp_bundle.js.map
`), renameplan.FormatYAML, "plan.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	e := newEnv(t)
	e.opts.Plan = plan
	e.writeInput(t, inputName, map[string]string{
		"solution.xml": testutil.SolutionXML,
		"WebResources/cn_Cathal.SecurityRoleManager/bundle.js.map": "{}",
	})
	_, out := mustRun(t, e)

	if got, ok := out["WebResources/ewwp_bundle.js.map"]; !ok || got != "{}" {
		t.Errorf("flattened web resource = %q (present %v)", got, ok)
	}
	for name := range out {
		if strings.HasPrefix(name, "WebResources/cn_Cathal.SecurityRoleManager/") {
			t.Errorf("old web resource folder entry %s in output", name)
		}
	}
}

func TestRun_MissingPublisher(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	files := testutil.ManagedSolutionFiles()
	files["solution.xml"] = testutil.SolutionXMLNoPublisher
	e.writeInput(t, inputName, files)

	_, out := mustRun(t, e)

	if !strings.Contains(out["solution.xml"], "<UniqueName>SecurityRoleManager</UniqueName>") {
		t.Errorf("solution unique name not rewritten:\n%s", out["solution.xml"])
	}
	if !strings.Contains(out["customizations.xml"], "<Name>ewwp.SecurityRoleManager</Name>") {
		t.Errorf("customizations not rewritten:\n%s", out["customizations.xml"])
	}
	if !strings.Contains(out["Controls/SecurityRoleManager/ControlManifest.xml"], `namespace="ewwp"`) {
		t.Error("control manifest not rewritten")
	}
}

func TestRun_OptionalDocumentsAbsent(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeInput(t, inputName, map[string]string{"Other/Readme.txt": "only"})

	res, out := mustRun(t, e)

	if out["Other/Readme.txt"] != "only" {
		t.Errorf("output = %v", out)
	}
	for _, d := range res.Documents {
		if !d.Skipped {
			t.Errorf("document %s not skipped", d.Path)
		}
	}
	for _, m := range res.Moves {
		if m.Moved {
			t.Errorf("unexpected move %v", m)
		}
	}
}

func TestRun_NoInput(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	testutil.MustMkdirAll(t, string(e.opts.InputDir))
	testutil.MustWriteFile(t, filepath.Join(string(e.opts.InputDir), "notes.txt"), "x")

	res, err := e.run(t)
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("Run() error = %v, want ErrInputNotFound", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageDiscover {
		t.Errorf("error = %v, want StageError at discover", err)
	}
	if res.Stage != StageDiscover {
		t.Errorf("Stage = %s", res.Stage)
	}
	if files := outputFiles(t, e.opts.OutputDir); len(files) != 0 {
		t.Errorf("output files = %v, want none", files)
	}
}

func TestRun_AmbiguousInput(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeInput(t, inputName, testutil.ManagedSolutionFiles())
	other := e.writeInput(t, "SecurityRoleManager_2.0.0_managed.zip", testutil.ManagedSolutionFiles())

	_, err := e.run(t)
	var ae *AmbiguousInputError
	if !errors.As(err, &ae) || !errors.Is(err, ErrAmbiguousInput) {
		t.Fatalf("Run() error = %v, want AmbiguousInputError", err)
	}
	if len(ae.Candidates) != 2 || ae.Candidates[0] != inputName {
		t.Errorf("Candidates = %v", ae.Candidates)
	}

	e.opts.Input = types.FilesystemPath(other)
	res, err := e.run(t)
	if err != nil {
		t.Fatalf("Run() with explicit input failed: %v", err)
	}
	if res.Version != "2.0.0" || res.Output.Base() != "SecurityRoleManager_2.0.0_unmanaged.zip" {
		t.Errorf("Version = %q, Output = %s", res.Version, res.Output)
	}
}

func TestRun_MalformedManifestLeavesWorkspace(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	files := testutil.ManagedSolutionFiles()
	files["customizations.xml"] = "<ImportExportXml><WebResources>"
	e.writeInput(t, inputName, files)

	res, err := e.run(t)
	if !errors.Is(err, manifest.ErrDocumentParse) {
		t.Fatalf("Run() error = %v, want ErrDocumentParse", err)
	}
	if res.Stage != StageRewriteCustomizations {
		t.Errorf("Stage = %s", res.Stage)
	}
	if _, statErr := os.Stat(string(e.opts.WorkspaceDir)); statErr != nil {
		t.Errorf("workspace removed after pre-repackage failure: %v", statErr)
	}
	if files := outputFiles(t, e.opts.OutputDir); len(files) != 0 {
		t.Errorf("output files = %v, want none", files)
	}
}

// Not parallel: replaces removeWorkspace.
func TestRun_CleanupFailureDiscardsOutput(t *testing.T) {
	orig := removeWorkspace
	t.Cleanup(func() { removeWorkspace = orig })
	removeWorkspace = func(p types.FilesystemPath) error {
		return &fspath.FilesystemError{Op: "remove", Path: p, Err: os.ErrPermission}
	}

	e := newEnv(t)
	e.writeInput(t, inputName, testutil.ManagedSolutionFiles())

	res, err := e.run(t)
	if !errors.Is(err, fspath.ErrFilesystem) {
		t.Fatalf("Run() error = %v, want ErrFilesystem", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageCleanup {
		t.Errorf("error = %v, want cleanup StageError", err)
	}
	if res.Stage != StageCleanup {
		t.Errorf("Stage = %s, want cleanup", res.Stage)
	}
	if files := outputFiles(t, e.opts.OutputDir); len(files) != 0 {
		t.Errorf("output files = %v, want none", files)
	}
}

func TestRun_InvalidArchive(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	testutil.MustWriteFile(t, filepath.Join(string(e.opts.InputDir), inputName), "not a zip")

	_, err := e.run(t)
	if !errors.Is(err, archive.ErrArchiveRead) {
		t.Fatalf("Run() error = %v, want ErrArchiveRead", err)
	}
	if files := outputFiles(t, e.opts.OutputDir); len(files) != 0 {
		t.Errorf("output files = %v, want none", files)
	}
}

func TestRun_ClearsLeftoverWorkspace(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.opts.KeepWorkspace = true
	e.writeInput(t, inputName, testutil.ManagedSolutionFiles())
	stale := filepath.Join(string(e.opts.WorkspaceDir), "stale", "leftover.txt")
	testutil.MustWriteFile(t, stale, "crashed run")

	_, out := mustRun(t, e)

	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Error("leftover file survived workspace preparation")
	}
	if _, ok := out["stale/leftover.txt"]; ok {
		t.Error("leftover file was packed into the output")
	}
	if _, err := os.Stat(filepath.Join(string(e.opts.WorkspaceDir), "solution.xml")); err != nil {
		t.Errorf("workspace not kept: %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeInput(t, inputName, testutil.ManagedSolutionFiles())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, e.opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if files := outputFiles(t, e.opts.OutputDir); len(files) != 0 {
		t.Errorf("output files = %v, want none", files)
	}
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	in := types.FilesystemPath(filepath.Join(base, "Input"))
	out := types.FilesystemPath(filepath.Join(base, "Out"))

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"valid", Options{InputDir: in, OutputDir: out, WorkspaceDir: types.FilesystemPath(filepath.Join(base, "Tmp"))}, false},
		{"workspace inside output", Options{InputDir: in, OutputDir: out, WorkspaceDir: types.FilesystemPath(filepath.Join(string(out), "tmp"))}, false},
		{"empty input", Options{OutputDir: out, WorkspaceDir: "tmp"}, true},
		{"blank workspace", Options{InputDir: in, OutputDir: out, WorkspaceDir: "  "}, true},
		{"workspace is input", Options{InputDir: in, OutputDir: out, WorkspaceDir: in}, true},
		{"workspace contains output", Options{InputDir: in, OutputDir: out, WorkspaceDir: types.FilesystemPath(base)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("error %v does not wrap ErrInvalidOptions", err)
			}
		})
	}
}
