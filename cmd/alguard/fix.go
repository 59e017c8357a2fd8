package alguard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fixer "github.com/alguard/alguard/internal/fix"
	"github.com/alguard/alguard/internal/report"
)

var flagFixPreview bool

func init() {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Scan, propose and apply fixes in one step",
		RunE:  runFix,
	}
	rootCmd.AddCommand(cmd)

	addScopeFlags(cmd)
	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "apply without asking")
	cmd.Flags().BoolVar(&flagFixPreview, "preview", true, "show the diff before asking")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append the batch to the audit log")
}

func runFix(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(flagPath)
	if err != nil {
		return err
	}
	res, err := scanRepo(cmd.Context(), s, scanOptions{})
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	prop, err := fixer.Propose(s.root, res.Findings, fixer.WithLogger(logger))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(prop.Files) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to fix")
		return nil
	}
	if flagFixPreview {
		if err := report.PrintPreview(out, s.root, prop, s.noColor || !isTerminal(os.Stdout)); err != nil {
			return err
		}
	}

	confirmed := flagYes || (stdinIsTerminal() && confirm(cmd.InOrStdin(), os.Stderr, applyPrompt(prop.Files)))
	applied, err := applyAndRecord(s.root, prop.Files, confirmed)
	if !applied.Confirmed {
		_, _ = fmt.Fprintln(out, "Not applied (use --yes or confirm interactively)")
		return nil
	}
	for _, fa := range applied.Files {
		if fa.Error != "" {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", fa.File, fa.Error)
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s: %d edit(s)\n", fa.File, fa.Applied)
	}
	_, _ = fmt.Fprintf(out, "Applied %d edit(s)\n", applied.Total())
	return err
}
