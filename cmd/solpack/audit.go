// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/internal/issue"
	"github.com/solpack/solpack/internal/repackage"
	"github.com/solpack/solpack/pkg/types"
)

func newAuditCommand(app *App) *cobra.Command {
	var planFile string

	cmd := &cobra.Command{
		Use:   "audit <archive.zip>",
		Short: "Report old identifiers left in a solution archive",
		Long: `Report old identifiers left in a solution archive.

Every entry name and entry content is searched for the old value of each
substitution rule of the plan. The command exits with status 3 when any
is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, types.ExitFailure, config.ColorSchemeAuto)
			}
			if planFile == "" {
				planFile = cfg.PlanFile
			}
			plan, err := loadPlan(planFile)
			if err != nil {
				return app.fail(cmd, err, types.ExitFailure, cfg.UI.ColorScheme)
			}

			target := types.FilesystemPath(args[0])
			residuals, err := repackage.Audit(target, plan)
			if err != nil {
				return app.fail(cmd, err, types.ExitFailure, cfg.UI.ColorScheme)
			}
			if len(residuals) == 0 {
				fmt.Fprintf(app.stdout, "%s No old identifiers in %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(args[0]))
				return nil
			}

			fmt.Fprintf(app.stdout, "%s %d old identifier(s) in %s\n", WarningStyle.Render("!"), len(residuals), CmdStyle.Render(args[0]))
			for _, r := range residuals {
				fmt.Fprintf(app.stdout, "  %s\n", r)
			}
			err = issue.NewErrorContext().
				WithOperation("audit archive").
				WithResource(args[0]).
				WithIssue(issue.ResidualsFoundId).
				Wrap(fmt.Errorf("%d residual identifier(s) found", len(residuals))).
				BuildError()
			return app.fail(cmd, err, types.ExitResiduals, cfg.UI.ColorScheme)
		},
	}
	cmd.Flags().StringVar(&planFile, "plan", "", "rename plan file (default is the configured or built-in plan)")

	return cmd
}
