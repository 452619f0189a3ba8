// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/types"
)

// newConfigCommand creates the `solpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect solpack configuration",
		Long: `Inspect solpack configuration.

Configuration is read from the --config file, else from:
  - Linux: ~/.config/solpack/config.cue
  - macOS: ~/Library/Application Support/solpack/config.cue
  - Windows: %APPDATA%\solpack\config.cue
else from ./solpack.cue. SOLPACK_INPUT_DIR, SOLPACK_OUTPUT_DIR and
SOLPACK_WORKSPACE_DIR override the directory settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := config.LoadWithSource(cmd.Context(), config.LoadOptions{
				ConfigFilePath: types.FilesystemPath(app.cfgFile),
			})
			if err != nil {
				return app.fail(cmd, err, types.ExitFailure, config.ColorSchemeAuto)
			}
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("// source: "+source))
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(cmd, err, types.ExitFailure, config.ColorSchemeAuto)
			}
			path := fspath.JoinStr(dir, config.ConfigFileName+"."+config.ConfigFileExt)
			fmt.Fprintln(app.stdout, path)
			if !fspath.IsFile(path) {
				fmt.Fprintln(app.stdout, VerboseStyle.Render("(file does not exist, defaults apply)"))
			}
			return nil
		},
	})

	return cfgCmd
}
