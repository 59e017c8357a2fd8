package engine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/alguard/alguard/internal/ignore"
)

// Walk traverses root in lexical order and invokes visit with the
// slash-separated relative path of each selected file. Any traversal error
// aborts the walk.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, visit func(rel string)) error {
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", p, err)
		}
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rel, err := filepath.Rel(cfg.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (skipDirs[d.Name()] || ign.Match(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !allowedByGlobs(rel, cfg.IncludeGlobs, cfg.ExcludeGlobs) || ign.Match(rel) {
			return nil
		}
		visit(rel)
		return nil
	})
}

// CountTargets returns the number of files a scan with cfg would read.
func CountTargets(ctx context.Context, cfg Config) (int, error) {
	targets, err := selectTargets(ctx, cfg)
	return len(targets), err
}
