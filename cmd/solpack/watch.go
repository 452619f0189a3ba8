// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/internal/repackage"
	"github.com/solpack/solpack/internal/watch"
	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/types"
)

func newWatchCommand(app *App) *cobra.Command {
	var (
		flags    repackageFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Repackage every managed archive dropped into the input directory",
		Long: `Repackage every managed archive dropped into the input directory.

The input directory is watched for new or rewritten *_managed.zip files.
Once writes to an archive settle for the debounce period it is repackaged
exactly as 'solpack repackage --input <archive>' would. Failed runs are
reported and watching continues. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, app, flags, debounce)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period after the last write before repackaging")

	return cmd
}

func runWatch(cmd *cobra.Command, app *App, flags repackageFlags, debounce time.Duration) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(cmd, err, types.ExitFailure, config.ColorSchemeAuto)
	}
	scheme := cfg.UI.ColorScheme
	base, err := flags.options(app, cfg)
	if err != nil {
		return app.fail(cmd, err, types.ExitFailure, scheme)
	}
	if err := base.Validate(); err != nil {
		return app.fail(cmd, err, types.ExitFailure, scheme)
	}
	if err := fspath.MkdirAll(base.InputDir); err != nil {
		return app.fail(cmd, err, types.ExitFailure, scheme)
	}

	w, err := watch.New(watch.Config{
		Dir:      base.InputDir,
		Debounce: debounce,
		Logger:   base.Logger,
		OnChange: func(ctx context.Context, changed []string) error {
			for _, name := range changed {
				app.repackageDropped(ctx, base, name, scheme)
			}
			return nil
		},
	})
	if err != nil {
		return app.fail(cmd, err, types.ExitFailure, scheme)
	}

	fmt.Fprintf(app.stdout, "%s %s %s\n", TitleStyle.Render("Watching"), CmdStyle.Render(string(base.InputDir)),
		SubtitleStyle.Render("(Ctrl+C to stop)"))
	if err := w.Run(ctx); err != nil {
		return app.fail(cmd, err, types.ExitFailure, scheme)
	}
	return nil
}

// repackageDropped converts one archive found by the watcher. Failures are
// rendered and do not stop the watch.
func (a *App) repackageDropped(ctx context.Context, base repackage.Options, name string, scheme config.ColorScheme) {
	input := fspath.JoinStr(base.InputDir, name)
	if !fspath.IsFile(input) {
		return
	}
	opts := base
	opts.Input = input

	res, err := repackage.Run(ctx, opts)
	if err != nil {
		issueID, styled := classifyError(err, a.verbose)
		renderServiceError(a.stderr, newServiceError(err, issueID, styled), scheme)
		return
	}
	a.reportResult(res)
}
