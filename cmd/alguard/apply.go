package alguard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/audit"
	"github.com/alguard/alguard/internal/fix"
	"github.com/alguard/alguard/internal/types"
)

var (
	flagYes       bool
	flagNoAudit   bool
	flagApplyFrom string

	// stdinIsTerminal is swapped in tests.
	stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }
)

func init() {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an edit proposal to the sources",
		Long: "apply reads a proposal (UTF-8 or UTF-16 JSON), asks for confirmation on a terminal unless --yes\n" +
			"is given, writes the edits and prints the per-file result as JSON.",
		RunE: runApply,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "repository root")
	cmd.Flags().StringVar(&flagApplyFrom, "from", "-", "proposal JSON file ('-' for stdin)")
	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "apply without asking")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append the batch to the audit log")
}

func runApply(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(flagPath)
	if err != nil {
		return err
	}
	b, err := readInput(cmd, flagApplyFrom)
	if err != nil {
		return err
	}
	prop, err := fix.ParseProposal(b)
	if err != nil {
		return err
	}

	// stdin already carries the proposal, so it cannot answer the prompt
	canPrompt := flagApplyFrom != "-" && stdinIsTerminal()
	confirmed := flagYes || (canPrompt && confirm(cmd.InOrStdin(), os.Stderr, applyPrompt(prop.Files)))
	res, applyErr := applyAndRecord(s.root, prop.Files, confirmed)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	return applyErr
}

// applyAndRecord applies files and appends confirmed batches to the audit
// log. The apply error is returned after the result has been recorded.
func applyAndRecord(root string, files []types.FileProposal, confirmed bool) (types.ApplyResult, error) {
	res, err := fix.Apply(root, files, confirmed, fix.WithLogger(logger))
	if !res.Confirmed || flagNoAudit {
		return res, err
	}
	rec := audit.CreateApplyRecord(root, files, res)
	if aerr := audit.NewAuditLog(root).LogApply(rec); aerr != nil {
		logger.WithError(aerr).Warn("could not write audit log")
	}
	return res, err
}

func applyPrompt(files []types.FileProposal) string {
	n := 0
	for _, fp := range files {
		n += len(fp.Edits)
	}
	return fmt.Sprintf("Apply %d edit(s) to %d file(s)?", n, len(files))
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
