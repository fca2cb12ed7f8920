package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMarginsCmd(load Loader) *cobra.Command {
	marginsCmd := &cobra.Command{
		Use:   "margins",
		Short: "Inspect stored profit margins",
	}

	var repair bool
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Find projects whose stored margin no longer matches amount and costs",
		Long: `Recomputes the profit margin of every project of every user and reports
the ones that differ from the stored value. With --repair the stored value is rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				report, err := env.Margins.Reconcile(cmd.Context(), repair)
				if err != nil {
					return fmt.Errorf("reconciliation failed: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Checked: %d\nStale: %d\nRepaired: %d\n", report.Checked, report.Stale, report.Repaired)
				for _, id := range report.StaleIDs {
					fmt.Fprintf(out, "  %s\n", id)
				}
				return nil
			})
		},
	}
	reconcileCmd.Flags().BoolVar(&repair, "repair", false, "rewrite stale margins")

	marginsCmd.AddCommand(reconcileCmd)
	return marginsCmd
}
