package alguard

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/ignore"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ignore <pattern>...",
		Short: "Add patterns to " + ignore.FileName,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			for _, p := range args {
				if err := ignore.Append(abs, p); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", filepath.Join(abs, ignore.FileName))
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "repository root")
	rootCmd.AddCommand(cmd)
}
