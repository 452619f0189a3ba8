// SPDX-License-Identifier: MPL-2.0

package repackage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/solpack/solpack/pkg/archive"
	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/manifest"
	"github.com/solpack/solpack/pkg/pathmap"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

// removeWorkspace deletes the workspace in the cleanup stage.
var removeWorkspace = fspath.RemoveAll

type (
	// Options configures one run.
	Options struct {
		InputDir     types.FilesystemPath
		OutputDir    types.FilesystemPath
		WorkspaceDir types.FilesystemPath
		// Input selects the managed archive explicitly; InputDir is not
		// scanned when set.
		Input types.FilesystemPath
		// Plan drives every rename. Nil means the embedded default plan.
		Plan *renameplan.Plan
		// KeepWorkspace skips the cleanup stage.
		KeepWorkspace bool
		// Logger receives progress lines. Nil discards them.
		Logger *log.Logger
	}

	// Result summarizes a run. On failure it holds whatever was done
	// before the failing stage.
	Result struct {
		RunID   string
		Input   types.FilesystemPath
		Output  types.FilesystemPath
		Version string
		// Stage is the last stage reached.
		Stage     Stage
		Documents []manifest.FileResult
		Moves     []pathmap.Move
		// Residuals lists old identifiers found in the output archive.
		Residuals []Residual
	}

	runner struct {
		opts   Options
		plan   *renameplan.Plan
		logger *log.Logger
		res    *Result
	}
)

// Edits returns every manifest edit of the run in order, control manifest
// edits included.
func (r *Result) Edits() []manifest.Edit {
	var out []manifest.Edit
	for _, d := range r.Documents {
		out = append(out, d.Edits...)
	}
	for _, m := range r.Moves {
		if m.Manifest != nil {
			out = append(out, m.Manifest.Edits...)
		}
	}
	return out
}

// Run executes every stage in order. Stage failures are returned as
// *StageError.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	plan := opts.Plan
	if plan == nil {
		var err error
		if plan, err = renameplan.Default(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	res := &Result{RunID: uuid.NewString()}
	r := &runner{
		opts:   opts,
		plan:   plan,
		logger: logger.With("run", res.RunID[:8]),
		res:    res,
	}
	return res, r.run(ctx)
}

func (r *runner) run(ctx context.Context) error {
	steps := []struct {
		stage Stage
		fn    func() error
	}{
		{StageDiscover, r.discover},
		{StagePrepare, r.prepare},
		{StageExtract, r.extract},
		{StageRewriteSolution, r.rewrite(manifest.SolutionFile, manifest.SolutionRewriter{})},
		{StageRewriteCustomizations, r.rewrite(manifest.CustomizationsFile, manifest.CustomizationsRewriter{})},
		{StageRemapWebResources, r.remapWebResources},
		{StageRemapControls, r.remapControls},
	}
	for _, s := range steps {
		r.res.Stage = s.stage
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: s.stage, Err: err}
		}
		if err := s.fn(); err != nil {
			r.logger.Error("stage failed", "stage", s.stage, "err", err)
			return &StageError{Stage: s.stage, Err: err}
		}
	}

	// The workspace is removed after a repackage attempt whatever its
	// outcome; earlier failures leave it for inspection.
	r.res.Stage = StageRepackage
	packErr := ctx.Err()
	if packErr == nil {
		packErr = r.repackage()
	}
	if packErr != nil {
		packErr = &StageError{Stage: StageRepackage, Err: packErr}
		r.logger.Error("stage failed", "stage", StageRepackage, "err", packErr)
	}

	r.res.Stage = StageCleanup
	if err := r.cleanup(); err != nil {
		if packErr == nil {
			r.discardOutput()
		}
		return errors.Join(packErr, &StageError{Stage: StageCleanup, Err: err})
	}
	if packErr != nil {
		return packErr
	}

	r.res.Stage = StageDone
	r.audit()
	r.logger.Info("created unmanaged solution", "output", r.res.Output)
	return nil
}

func (r *runner) discover() error {
	input, err := Discover(r.opts.InputDir, r.opts.Input)
	if err != nil {
		return err
	}
	r.res.Input = input
	r.res.Version = VersionToken(input.Base(), r.plan.Product())
	r.res.Output = fspath.JoinStr(r.opts.OutputDir, OutputName(r.plan.Product(), r.res.Version))
	r.logger.Info("found managed solution", "input", input, "version", r.res.Version)
	return nil
}

func (r *runner) prepare() error {
	ws := r.opts.WorkspaceDir
	if fspath.Exists(ws) {
		r.logger.Debug("removing leftover workspace", "path", ws)
		if err := fspath.RemoveAll(ws); err != nil {
			return err
		}
	}
	return fspath.MkdirAll(ws)
}

func (r *runner) extract() error {
	r.logger.Info("extracting", "input", r.res.Input, "workspace", r.opts.WorkspaceDir)
	return archive.Extract(r.res.Input, r.opts.WorkspaceDir)
}

func (r *runner) rewrite(name string, rw manifest.Rewriter) func() error {
	return func() error {
		path := fspath.JoinStr(r.opts.WorkspaceDir, name)
		fr, err := manifest.RewriteFile(path, rw, r.plan)
		if err != nil {
			return err
		}
		r.res.Documents = append(r.res.Documents, fr)
		if fr.Skipped {
			r.logger.Warn("document absent, skipped", "document", name)
			return nil
		}
		r.logger.Info("edited "+rw.Name(), "edits", len(fr.Edits))
		r.logEdits(fr.Edits)
		return nil
	}
}

func (r *runner) remapWebResources() error {
	moves, err := pathmap.New(r.opts.WorkspaceDir, r.plan).WebResources()
	r.recordMoves(moves)
	return err
}

func (r *runner) remapControls() error {
	moves, err := pathmap.New(r.opts.WorkspaceDir, r.plan).ControlFolders()
	r.recordMoves(moves)
	return err
}

func (r *runner) recordMoves(moves []pathmap.Move) {
	for _, m := range moves {
		r.res.Moves = append(r.res.Moves, m)
		if !m.Moved {
			r.logger.Debug("path absent, skipped", "from", m.From)
		} else {
			r.logger.Info("moved", "from", m.From, "to", m.To)
		}
		if m.RemovedDir != "" {
			r.logger.Debug("removed folder", "path", m.RemovedDir)
		}
		if m.Manifest != nil && !m.Manifest.Skipped {
			r.logger.Info("edited control manifest", "edits", len(m.Manifest.Edits))
			r.logEdits(m.Manifest.Edits)
		}
	}
}

func (r *runner) logEdits(edits []manifest.Edit) {
	for _, e := range edits {
		r.logger.Debug("edit", "target", e.Target, "node", e.Node, "old", e.Old, "new", e.New)
	}
}

func (r *runner) repackage() error {
	if parent := fspath.Dir(r.res.Output); !fspath.IsDir(parent) {
		r.logger.Info("output location did not exist, creating", "path", parent)
	}
	r.logger.Info("creating archive", "output", r.res.Output)
	return archive.Pack(r.res.Output, r.opts.WorkspaceDir)
}

func (r *runner) cleanup() error {
	if r.opts.KeepWorkspace {
		r.logger.Info("keeping workspace", "path", r.opts.WorkspaceDir)
		return nil
	}
	return removeWorkspace(r.opts.WorkspaceDir)
}

// discardOutput deletes an archive packed by a run that failed afterwards.
func (r *runner) discardOutput() {
	r.logger.Warn("removing output of failed run", "output", r.res.Output)
	if err := fspath.RemoveAll(r.res.Output); err != nil {
		r.logger.Warn("remove output", "err", err)
	}
}

// audit is advisory: residuals are reported, never fatal.
func (r *runner) audit() {
	residuals, err := Audit(r.res.Output, r.plan)
	if err != nil {
		r.logger.Warn("audit of output failed", "err", err)
		return
	}
	r.res.Residuals = residuals
	for _, res := range residuals {
		r.logger.Warn("old identifier remains", "entry", res.Entry, "value", res.Value, "in_path", res.InPath)
	}
}

// ErrInvalidOptions is returned by Options.Validate.
var ErrInvalidOptions = errors.New("invalid options")

// Validate checks that every directory is set and that the workspace, which
// is deleted recursively, neither equals nor contains the input or output
// directory.
func (o Options) Validate() error {
	dirs := []struct {
		name string
		path types.FilesystemPath
	}{
		{"input directory", o.InputDir},
		{"output directory", o.OutputDir},
		{"workspace directory", o.WorkspaceDir},
	}
	for _, d := range dirs {
		if err := d.path.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOptions, d.name, err)
		}
	}

	ws, err := fspath.Abs(o.WorkspaceDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	for _, d := range dirs[:2] {
		abs, err := fspath.Abs(d.path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		if within(abs, ws) {
			return fmt.Errorf("%w: workspace %s would delete the %s %s", ErrInvalidOptions, o.WorkspaceDir, d.name, d.path)
		}
	}
	return nil
}

// within reports whether p equals dir or lies below it.
func within(p, dir types.FilesystemPath) bool {
	if p == dir {
		return true
	}
	prefix := strings.TrimSuffix(string(dir), string(filepath.Separator)) + string(filepath.Separator)
	return strings.HasPrefix(string(p), prefix)
}
