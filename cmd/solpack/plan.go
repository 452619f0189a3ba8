// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/solpack/solpack/internal/config"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

// newPlanCommand creates the `solpack plan` command tree.
func newPlanCommand(app *App) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect rename plans",
		Long: `Inspect rename plans.

A rename plan lists every identity overwrite, component rename and path
move applied by 'solpack repackage'. Plans are written in CUE, YAML or TOML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var planFile string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the rules of the effective plan, grouped by scope",
		Args:  cobra.NoArgs,
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
			printPlan(app.stdout, plan)
			return nil
		},
	}
	showCmd.Flags().StringVar(&planFile, "plan", "", "rename plan file (default is the configured or built-in plan)")
	planCmd.AddCommand(showCmd)

	planCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a plan file decodes and compiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return app.fail(cmd, err, types.ExitFailure, config.ColorSchemeAuto)
			}
			fmt.Fprintf(app.stdout, "%s %s is valid (%d rules for %s)\n",
				SuccessStyle.Render("✓"), CmdStyle.Render(args[0]), len(plan.Rules()), plan.Product())
			return nil
		},
	})

	return planCmd
}

// printPlan writes one section per scope, rules in application order.
func printPlan(w io.Writer, plan *renameplan.Plan) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Plan"), SubtitleStyle.Render(plan.Source()))
	fmt.Fprintf(w, "  product: %s\n  locale:  %s\n", plan.Product(), plan.Locale())

	for _, scope := range renameplan.Scopes {
		rules := plan.RulesFor(scope)
		fmt.Fprintln(w, scopeHeaderStyle.Render(fmt.Sprintf("%s (%d)", scope, len(rules))))
		for _, r := range rules {
			old := "*"
			if !r.IsOverwrite() {
				old = fmt.Sprintf("%q", r.Old)
			}
			line := fmt.Sprintf("  %-34s %s -> %s", r.Target, ruleOldStyle.Render(old), ruleNewStyle.Render(fmt.Sprintf("%q", r.New)))
			if r.Locale != "" {
				line += " " + VerboseStyle.Render("(locale "+r.Locale+")")
			}
			fmt.Fprintln(w, line)
		}
	}
}
