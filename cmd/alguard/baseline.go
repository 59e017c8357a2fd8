package alguard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Update baseline from current scan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(flagPath)
			if err != nil {
				return err
			}
			res, err := scanRepo(cmd.Context(), s, scanOptions{})
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(s.baseline, res.Findings); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated (%d findings).\n", len(res.Findings))
			return nil
		},
	}
	addScopeFlags(update)

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
