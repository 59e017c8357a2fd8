package alguard

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/rules"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ds := rules.Descriptors()
			if flagJSON {
				type row struct {
					ID              string `json:"id"`
					DefaultSeverity string `json:"defaultSeverity"`
					ConfigKeys      string `json:"configKeys"`
					Description     string `json:"description"`
					Fixable         bool   `json:"fixable"`
				}
				rows := make([]row, 0, len(ds))
				for _, d := range ds {
					rows = append(rows, row{d.ID, string(d.DefaultSeverity), d.ConfigKeys, d.Description, d.Fixable})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			table := tablewriter.NewWriter(out)
			table.Header("RULE", "SEVERITY", "FIXABLE", "CONFIG", "DESCRIPTION")
			for _, d := range ds {
				fixable := "no"
				if d.Fixable {
					fixable = "yes"
				}
				if err := table.Append([]string{d.ID, string(d.DefaultSeverity), fixable, d.ConfigKeys, d.Description}); err != nil {
					return fmt.Errorf("render rules: %w", err)
				}
			}
			return table.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
