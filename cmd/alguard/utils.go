package alguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alguard/alguard/internal/cache"
	"github.com/alguard/alguard/internal/config"
	"github.com/alguard/alguard/internal/engine"
	"github.com/alguard/alguard/internal/report"
	"github.com/alguard/alguard/internal/rules"
)

// Scope flags shared by every command that scans.
var (
	flagPath      string
	flagInclude   string
	flagExclude   string
	flagRulesFile string
	flagOnly      string
	flagSkip      string
)

func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "repository root")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs (default **/*.al)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&flagRulesFile, "rules-file", "", "YAML or JSON rule configuration")
	cmd.Flags().StringVar(&flagOnly, "only", "", "only run these rules (comma-separated ids)")
	cmd.Flags().StringVar(&flagSkip, "skip", "", "skip these rules (comma-separated ids)")
}

// settings is the effective configuration of one invocation: CLI flags
// over the repo-local file over the global file.
type settings struct {
	root     string
	engine   engine.Config
	ruleMap  map[string]any
	failOn   string
	noColor  bool
	format   string
	baseline string
	cache    bool
}

func loadSettings(path string) (settings, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return settings{}, err
	}
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	ruleMap, err := resolveRules(abs, lcfg, gcfg)
	if err != nil {
		return settings{}, err
	}
	rc := rules.ParseConfig(ruleMap)
	rc.Only = splitList(pickString(flagOnly, lcfg.Only, gcfg.Only))
	rc.Skip = splitList(pickString(flagSkip, lcfg.Skip, gcfg.Skip))

	s := settings{
		root:    abs,
		ruleMap: ruleMap,
		engine: engine.Config{
			Root:         abs,
			IncludeGlobs: engine.ParseGlobsList(pickString(flagInclude, lcfg.Include, gcfg.Include)),
			ExcludeGlobs: engine.ParseGlobsList(pickString(flagExclude, lcfg.Exclude, gcfg.Exclude)),
			Rules:        rc,
			Threads:      pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
			Logger:       logger,
		},
		failOn:   pickString(flagFailOn, lcfg.FailOn, gcfg.FailOn),
		noColor:  pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) || os.Getenv("NO_COLOR") != "",
		format:   pickString("", lcfg.Format, gcfg.Format),
		baseline: pickString("", lcfg.Baseline, gcfg.Baseline),
		cache:    pickBool(false, lcfg.Cache, gcfg.Cache),
	}
	if s.baseline == "" {
		s.baseline = report.DefaultBaselineFile
	}
	if !filepath.IsAbs(s.baseline) {
		s.baseline = filepath.Join(abs, s.baseline)
	}
	return s, nil
}

// resolveRules picks the rule map: --rules-file, then a rules_file named by
// the local or global config, then inline rules sections.
func resolveRules(root string, lcfg, gcfg config.FileConfig) (map[string]any, error) {
	if flagRulesFile != "" {
		return loadRulesFile(flagRulesFile)
	}
	if lcfg.RulesFile != nil && *lcfg.RulesFile != "" {
		p := *lcfg.RulesFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		return loadRulesFile(p)
	}
	if lcfg.Rules != nil {
		return lcfg.Rules, nil
	}
	if gcfg.RulesFile != nil && *gcfg.RulesFile != "" {
		return loadRulesFile(*gcfg.RulesFile)
	}
	return gcfg.Rules, nil
}

func loadRulesFile(p string) (map[string]any, error) {
	m, err := config.LoadRulesFile(p)
	if err != nil {
		return nil, fmt.Errorf("rules file: %w", err)
	}
	return m, nil
}

// openCache loads the scan cache keyed by everything that changes findings.
func openCache(s settings) *cache.DB {
	hash := cache.ConfigHash(struct {
		Version string
		Rules   rules.Config
	}{version, s.engine.Rules})
	db, err := cache.Load(s.root, hash)
	if err != nil {
		logger.WithError(err).Debug("cache unreadable; starting fresh")
	}
	return db
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
