package alguard

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/ignore"
	"github.com/alguard/alguard/internal/report"
)

var flagDebounce time.Duration

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan whenever an AL file changes",
		RunE:  runWatch,
	}
	rootCmd.AddCommand(cmd)

	addScopeFlags(cmd)
	cmd.Flags().DurationVar(&flagDebounce, "debounce", 300*time.Millisecond, "wait this long after the last change before scanning")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(flagPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	ign, _ := ignore.Load(filepath.Join(s.root, ignore.FileName))
	if err := addWatchDirs(watcher, s.root, s.root, ign); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rescan := func() {
		res, err := scanRepo(ctx, s, scanOptions{cache: true})
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "scan error:", err)
			return
		}
		_, _ = fmt.Fprintf(out, "\n[%s]\n", time.Now().Format("15:04:05"))
		report.PrintText(out, res.Findings, report.PrintOptions{NoColor: s.noColor, FilesScanned: res.FilesScanned, CacheHits: res.CacheHits})
	}
	rescan()
	_, _ = fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", s.root)
	return watchLoop(ctx, watcher, s.root, ign, flagDebounce, rescan, os.Stderr)
}

// watchLoop calls onChange once per burst of .al events, debounce after
// the last one. New directories are added as they appear.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, root string, ign ignore.Matcher, debounce time.Duration, onChange func(), errOut io.Writer) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addWatchDirs(watcher, root, event.Name, ign); err != nil {
						logger.WithError(err).WithField("dir", event.Name).Warn("could not watch new directory")
					}
					continue
				}
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".al") {
				continue
			}
			if ign.Match(relToRoot(root, event.Name)) {
				continue
			}
			logger.WithField("file", event.Name).WithField("op", event.Op.String()).Debug("change")
			timer.Reset(debounce)
		case <-timer.C:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintln(errOut, "watch error:", err)
		}
	}
}

// addWatchDirs recursively adds directories under dir, skipping .git and
// directories ignored relative to root.
func addWatchDirs(watcher *fsnotify.Watcher, root, dir string, ign ignore.Matcher) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && (d.Name() == ".git" || ign.Match(relToRoot(root, p)+"/")) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
