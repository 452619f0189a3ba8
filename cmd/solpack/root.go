// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/internal/issue"
	"github.com/solpack/solpack/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// App wires the CLI layer: the configuration provider, output streams and
// the global flag values shared by every subcommand.
type App struct {
	Config config.Provider
	stdout io.Writer
	stderr io.Writer

	verbose bool
	cfgFile string
}

// NewApp creates an App writing to the given streams.
func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		Config: config.NewProvider(),
		stdout: stdout,
		stderr: stderr,
	}
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solpack",
		Short: "Repackage managed solution exports as rebranded unmanaged solutions",
		Long: TitleStyle.Render("solpack") + SubtitleStyle.Render(" - managed to unmanaged solution repackager") + `

solpack takes a managed solution export, rewrites its identity
(unique name, display name, publisher, customization prefix), renames
its components and resource paths according to a rename plan, and
packs the result as an unmanaged solution.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Drop <Product>_<version>_managed.zip into ./Input
  2. Run: solpack repackage
  3. Import the archive written to ./Packaged Solutions

` + SubtitleStyle.Render("Examples:") + `
  solpack repackage                    Repackage the archive found in ./Input
  solpack repackage --plan plan.yaml   Use a custom rename plan
  solpack watch                        Repackage archives as they are dropped into ./Input
  solpack plan show                    List every rename rule
  solpack audit out.zip                Look for identifiers that were not renamed
  solpack config show                  Show the effective configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $HOME/.config/solpack/config.cue)")

	rootCmd.AddCommand(newRepackageCommand(app))
	rootCmd.AddCommand(newWatchCommand(app))
	rootCmd.AddCommand(newPlanCommand(app))
	rootCmd.AddCommand(newAuditCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	app := NewApp(os.Stdout, os.Stderr)
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// loadConfig loads the effective configuration. The --verbose flag wins
// over ui.verbose.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.cfgFile)})
	if err != nil {
		return nil, err
	}
	if a.verbose {
		cfg.UI.Verbose = true
	}
	return cfg, nil
}

// newLogger creates the progress logger. Debug lines, one per edit and
// move, are enabled in verbose mode.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stdout, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// fail renders err with its catalog help and returns an ExitError carrying
// code, so fang does not print the error a second time.
func (a *App) fail(cmd *cobra.Command, err error, code types.ExitCode, scheme config.ColorScheme) error {
	issueID, styled := classifyError(err, a.verbose)
	renderServiceError(a.stderr, newServiceError(err, issueID, styled), scheme)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code, Err: err}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
