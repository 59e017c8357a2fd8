package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alguard/alguard/internal/cache"
	"github.com/alguard/alguard/internal/ignore"
	"github.com/alguard/alguard/internal/logging"
	"github.com/alguard/alguard/internal/rules"
	"github.com/alguard/alguard/internal/types"
)

// ErrInvalidRoot is returned when the scan root is missing or not a directory.
var ErrInvalidRoot = errors.New("invalid root")

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root         string
	IncludeGlobs []string // default DefaultInclude
	ExcludeGlobs []string
	Rules        rules.Config
	Threads      int

	// Files, when non-nil, restricts the scan to these root-relative paths
	// (still subject to the globs and the ignore file).
	Files []string

	// Cache, when set, skips evaluation of files whose content hash is
	// unchanged. The caller loads and saves it.
	Cache *cache.DB

	Logger logrus.FieldLogger
	// Progress is called once per scanned file, possibly concurrently.
	Progress func()
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	CacheHits    int
	Duration     time.Duration
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats runs a scan and returns findings along with timing and counts.
// Findings are ordered by file in lexical walk order, then by rule order
// within a file, regardless of Threads. Any unreadable file aborts the scan
// and no findings are returned.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.OrDiscard(cfg.Logger)
	started := time.Now()

	targets, err := selectTargets(ctx, cfg)
	if err != nil {
		return result, err
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	log.WithField("root", cfg.Root).WithField("files", len(targets)).Debug("scan started")

	perFile := make([][]types.Finding, len(targets))
	var hits atomic.Int64
	var progressMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, rel := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs, hit, err := scanFile(cfg, rel)
			if err != nil {
				return err
			}
			if hit {
				hits.Add(1)
			}
			perFile[i] = fs
			if len(fs) > 0 {
				log.WithField("file", rel).WithField("findings", len(fs)).Debug("evaluated")
			}
			if cfg.Progress != nil {
				progressMu.Lock()
				cfg.Progress()
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	out := []types.Finding{}
	for _, fs := range perFile {
		out = append(out, fs...)
	}
	result.Findings = out
	result.FilesScanned = len(targets)
	result.CacheHits = int(hits.Load())
	result.Duration = time.Since(started)
	return result, nil
}

func scanFile(cfg Config, rel string) ([]types.Finding, bool, error) {
	b, err := os.ReadFile(filepath.Join(cfg.Root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", rel, err)
	}
	var h string
	if cfg.Cache != nil {
		h = cache.Hash(b)
		if fs, ok := cfg.Cache.Lookup(rel, h); ok {
			return fs, true, nil
		}
	}
	fs := rules.Evaluate(rel, string(b), cfg.Rules)
	if cfg.Cache != nil {
		cfg.Cache.Store(rel, h, fs)
	}
	return fs, false, nil
}

// selectTargets validates the root and returns the files to scan in lexical
// order.
func selectTargets(ctx context.Context, cfg Config) ([]string, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	st, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, cfg.Root, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, cfg.Root)
	}
	if g, ok := ValidGlobs(append(append([]string(nil), cfg.IncludeGlobs...), cfg.ExcludeGlobs...)); !ok {
		return nil, fmt.Errorf("invalid glob %q", g)
	}
	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ignore.FileName, err)
	}

	if cfg.Files != nil {
		var out []string
		for _, f := range cfg.Files {
			rel := filepath.ToSlash(filepath.Clean(filepath.FromSlash(f)))
			if allowedByGlobs(rel, cfg.IncludeGlobs, cfg.ExcludeGlobs) && !ign.Match(rel) {
				out = append(out, rel)
			}
		}
		sort.Strings(out)
		return out, nil
	}

	var out []string
	err = Walk(ctx, cfg, ign, func(rel string) { out = append(out, rel) })
	return out, err
}
