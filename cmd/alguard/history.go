package alguard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/audit"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show applied fix batches from the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			records, err := audit.NewAuditLog(abs).LoadHistory()
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				if records == nil {
					records = []audit.ApplyRecord{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "No fixes applied yet")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("WHEN", "BRANCH", "COMMIT", "FILES", "EDITS", "FAILED")
			for _, r := range records {
				commit := r.Commit
				if len(commit) > 8 {
					commit = commit[:8]
				}
				_ = table.Append([]string{
					r.Timestamp.Local().Format("2006-01-02 15:04"),
					r.Branch,
					commit,
					strconv.Itoa(len(r.Files)),
					fmt.Sprintf("%d/%d", r.Applied, r.Proposed),
					strconv.Itoa(r.Failed),
				})
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "repository root")
	rootCmd.AddCommand(cmd)
}
