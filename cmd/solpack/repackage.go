// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/internal/issue"
	"github.com/solpack/solpack/internal/repackage"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

type repackageFlags struct {
	inputDir      string
	outputDir     string
	workspace     string
	input         string
	planFile      string
	keepWorkspace bool
}

func newRepackageCommand(app *App) *cobra.Command {
	var flags repackageFlags

	cmd := &cobra.Command{
		Use:   "repackage",
		Short: "Convert a managed solution archive into a rebranded unmanaged one",
		Long: `Convert a managed solution archive into a rebranded unmanaged one.

The input directory is scanned for exactly one <Product>_<version>_managed.zip.
The archive is extracted into the workspace, its manifests and resource
paths are rewritten according to the rename plan, and the result is
written to the output directory as <Product>_<version>_unmanaged.zip.
The workspace is removed afterwards unless --keep-workspace is set.`,
		Example: `  solpack repackage
  solpack repackage --input ./exports/SecurityRoleManager_1_2_3_managed.zip
  solpack repackage --plan ./rebrand.yaml --keep-workspace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepackage(cmd, app, flags)
		},
	}

	flags.register(cmd, true)

	return cmd
}

// register adds the run flags to cmd. The explicit --input flag is left out
// of commands that discover their own inputs.
func (f *repackageFlags) register(cmd *cobra.Command, withInput bool) {
	cmd.Flags().StringVar(&f.inputDir, "input-dir", "", "directory scanned for the managed archive (default from config)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory receiving the unmanaged archive (default from config)")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "scratch directory, deleted after the run (default from config)")
	if withInput {
		cmd.Flags().StringVar(&f.input, "input", "", "managed archive to convert; skips the input directory scan")
	}
	cmd.Flags().StringVar(&f.planFile, "plan", "", "rename plan file (.cue, .yaml or .toml; default is the built-in plan)")
	cmd.Flags().BoolVar(&f.keepWorkspace, "keep-workspace", false, "leave the extracted workspace in place")
}

func runRepackage(cmd *cobra.Command, app *App, flags repackageFlags) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(cmd, err, types.ExitFailure, config.ColorSchemeAuto)
	}
	opts, err := flags.options(app, cfg)
	if err != nil {
		return app.fail(cmd, err, types.ExitFailure, cfg.UI.ColorScheme)
	}

	res, err := repackage.Run(ctx, opts)
	if err != nil {
		return app.fail(cmd, err, types.ExitFailure, cfg.UI.ColorScheme)
	}
	app.reportResult(res)
	return nil
}

// options merges the flags over cfg. Set flags win.
func (f repackageFlags) options(app *App, cfg *config.Config) (repackage.Options, error) {
	opts := repackage.Options{
		InputDir:      overridePath(cfg.InputDir, f.inputDir),
		OutputDir:     overridePath(cfg.OutputDir, f.outputDir),
		WorkspaceDir:  overridePath(cfg.WorkspaceDir, f.workspace),
		Input:         types.FilesystemPath(f.input),
		KeepWorkspace: f.keepWorkspace,
		Logger:        app.newLogger(cfg.UI.Verbose),
	}

	planFile := cfg.PlanFile
	if f.planFile != "" {
		planFile = f.planFile
	}
	plan, err := loadPlan(planFile)
	if err != nil {
		return repackage.Options{}, err
	}
	opts.Plan = plan
	return opts, nil
}

func (a *App) reportResult(res *repackage.Result) {
	fmt.Fprintf(a.stdout, "%s Created %s (%d edits, %d moves)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(string(res.Output)), len(res.Edits()), movedCount(res))
	if len(res.Residuals) > 0 {
		fmt.Fprintf(a.stdout, "%s %d old identifier(s) remain; run %s for details\n",
			WarningStyle.Render("!"), len(res.Residuals), CmdStyle.Render("solpack audit "+string(res.Output)))
	}
}

// loadPlan returns the built-in plan for an empty path.
func loadPlan(path string) (*renameplan.Plan, error) {
	if path == "" {
		return renameplan.Default()
	}
	plan, err := renameplan.Load(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load rename plan").
			WithResource(path).
			WithIssue(issue.PlanInvalidId).
			WithSuggestion("Run 'solpack plan validate " + path + "' for the full list of problems").
			Wrap(err).
			BuildError()
	}
	return plan, nil
}

func overridePath(base types.FilesystemPath, flag string) types.FilesystemPath {
	if flag != "" {
		return types.FilesystemPath(flag)
	}
	return base
}

func movedCount(res *repackage.Result) int {
	n := 0
	for _, m := range res.Moves {
		if m.Moved {
			n++
		}
	}
	return n
}
