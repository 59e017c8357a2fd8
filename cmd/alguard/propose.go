package alguard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/cache"
	"github.com/alguard/alguard/internal/fix"
	"github.com/alguard/alguard/internal/report"
	"github.com/alguard/alguard/internal/types"
)

var (
	flagFrom    string
	flagLast    bool
	flagOut     string
	flagPreview bool
	flagCopy    bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Turn findings into a reviewable edit proposal (JSON)",
		Long: "propose scans the repository, or reads findings from --from or the last scan, and emits\n" +
			"the edits that would fix them. Nothing is written to the sources.",
		RunE: runPropose,
	}
	rootCmd.AddCommand(cmd)

	addScopeFlags(cmd)
	cmd.Flags().StringVar(&flagFrom, "from", "", "read findings JSON from this file ('-' for stdin)")
	cmd.Flags().BoolVar(&flagLast, "last", false, "use the findings of the last scan")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "write the proposal to this file instead of stdout")
	cmd.Flags().BoolVar(&flagPreview, "preview", false, "print a diff of the proposed edits to stderr")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the proposal JSON to the clipboard")
}

func runPropose(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(flagPath)
	if err != nil {
		return err
	}
	findings, err := proposalInput(cmd, s)
	if err != nil {
		return err
	}
	prop, err := fix.Propose(s.root, findings, fix.WithLogger(logger))
	if err != nil {
		return err
	}

	if flagPreview {
		if err := report.PrintPreview(os.Stderr, s.root, prop, s.noColor || !isTerminal(os.Stderr)); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(prop); err != nil {
		return err
	}
	if flagCopy {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "clipboard warning:", err)
		} else {
			_, _ = fmt.Fprintln(os.Stderr, "Copied proposal to clipboard")
		}
	}
	if flagOut != "" {
		if err := os.WriteFile(flagOut, buf.Bytes(), 0o644); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "Wrote %d file proposal(s) to %s\n", len(prop.Files), flagOut)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// proposalInput returns the findings to fix: --from, --last, or a fresh scan.
func proposalInput(cmd *cobra.Command, s settings) ([]types.Finding, error) {
	switch {
	case flagFrom != "":
		b, err := readInput(cmd, flagFrom)
		if err != nil {
			return nil, err
		}
		return fix.ParseFindings(b)
	case flagLast:
		last, err := cache.LoadLastScan(s.root)
		if err != nil {
			return nil, fmt.Errorf("no previous scan results (run 'alguard scan' first): %w", err)
		}
		findings, stale := last.Current(s.root)
		for _, f := range stale {
			logger.WithField("file", f).Warn("file changed since the last scan; its findings are skipped")
		}
		return findings, nil
	}
	res, err := scanRepo(cmd.Context(), s, scanOptions{})
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return res.Findings, nil
}

func readInput(cmd *cobra.Command, from string) ([]byte, error) {
	if from == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(from)
}
