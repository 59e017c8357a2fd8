package alguard

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/cache"
	"github.com/alguard/alguard/internal/engine"
	"github.com/alguard/alguard/internal/git"
	"github.com/alguard/alguard/internal/report"
	"github.com/alguard/alguard/internal/types"
)

var (
	flagChanged  bool
	flagCache    bool
	flagTable    bool
	flagText     bool
	flagBaseline string
	flagNoBase   bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Check AL files against the configured rules",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	addScopeFlags(cmd)
	cmd.Flags().BoolVar(&flagChanged, "changed", false, "only scan files changed in the git worktree")
	cmd.Flags().BoolVar(&flagCache, "cache", false, "reuse findings of unchanged files from the incremental cache")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file (default alguard.baseline.json at the root)")
	cmd.Flags().BoolVar(&flagNoBase, "no-baseline", false, "report baselined findings too")
}

func runScan(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(flagPath)
	if err != nil {
		return err
	}
	if flagBaseline != "" {
		s.baseline = flagBaseline
	}
	format := outputFormat(s.format)
	interactive := format == "table" || format == "text"

	if interactive {
		_, _ = fmt.Fprintf(os.Stderr, "Scanning %s...\n", s.root)
	}
	res, err := scanRepo(cmd.Context(), s, scanOptions{
		changed:  flagChanged,
		cache:    flagCache || s.cache,
		progress: interactive && isTerminal(os.Stderr),
	})
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	findings := res.Findings
	if !flagNoBase {
		if base, err := report.LoadBaseline(s.baseline); err == nil {
			findings = report.FilterNewFindings(findings, base)
		}
	}
	if err := cache.RecordScan(s.root, findings); err != nil {
		logger.WithError(err).Debug("could not store last scan")
	}

	out := cmd.OutOrStdout()
	if err := writeFindings(out, format, findings, report.PrintOptions{
		NoColor:      s.noColor,
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		CacheHits:    res.CacheHits,
	}); err != nil {
		return err
	}

	if report.ShouldFail(findings, s.failOn) {
		return exitError{code: 1}
	}
	return nil
}

// outputFormat resolves the report format from flags, then config.
func outputFormat(configured string) string {
	switch {
	case flagSARIF:
		return "sarif"
	case flagJSON:
		return "json"
	case flagText:
		return "text"
	case flagTable:
		return "table"
	}
	switch configured {
	case "sarif", "json", "text", "table":
		return configured
	}
	return "table"
}

func writeFindings(w io.Writer, format string, findings []types.Finding, opts report.PrintOptions) error {
	switch format {
	case "sarif":
		if err := report.WriteSARIF(w, findings, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case "json":
		return report.WriteJSON(w, findings)
	case "text":
		report.PrintText(w, findings, opts)
	default:
		report.PrintTable(w, findings, opts)
	}
	return nil
}

type scanOptions struct {
	changed  bool
	cache    bool
	progress bool
}

// scanRepo runs the engine with the optional CLI extras: git scope, the
// incremental cache, and a progress counter on stderr.
func scanRepo(ctx context.Context, s settings, opts scanOptions) (engine.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := s.engine
	if opts.changed {
		files, err := git.ChangedFiles(s.root)
		if err != nil {
			return engine.Result{}, err
		}
		if files == nil {
			files = []string{}
		}
		cfg.Files = files
	}
	var db *cache.DB
	if opts.cache {
		db = openCache(s)
		cfg.Cache = db
	}
	if opts.progress {
		total, _ := engine.CountTargets(ctx, cfg)
		var done atomic.Int64
		if total > 0 {
			cfg.Progress = func() {
				n := done.Add(1)
				if n%10 == 0 || int(n) == total {
					pct := float64(n) / float64(total) * 100
					_, _ = fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", n, total, pct)
				}
			}
			defer func() { _, _ = fmt.Fprintln(os.Stderr) }()
		}
	}

	res, err := engine.ScanWithStats(ctx, cfg)
	if err != nil {
		return res, err
	}
	if db != nil {
		if err := cache.Save(s.root, db); err != nil {
			logger.WithError(err).Warn("could not write scan cache")
		}
	}
	logger.WithField("files", res.FilesScanned).WithField("findings", len(res.Findings)).
		WithField("cache_hits", res.CacheHits).Info("scan finished")
	return res, nil
}

func relToRoot(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}
