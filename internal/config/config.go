package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alguard/alguard/internal/textenc"
)

// FileConfig is the on-disk YAML configuration shape for alguard.
type FileConfig struct {
	Include   *string `yaml:"include,omitempty"`
	Exclude   *string `yaml:"exclude,omitempty"`
	Threads   *int    `yaml:"threads,omitempty"`
	NoColor   *bool   `yaml:"no_color,omitempty"`
	Only      *string `yaml:"only,omitempty"`
	Skip      *string `yaml:"skip,omitempty"`
	FailOn    *string `yaml:"fail_on,omitempty"`
	Format    *string `yaml:"format,omitempty"`
	Cache     *bool   `yaml:"cache,omitempty"`
	Baseline  *string `yaml:"baseline,omitempty"`
	RulesFile *string `yaml:"rules_file,omitempty"`

	// Rules is kept loose and handed to rules.ParseConfig, so a malformed
	// value turns a rule off instead of failing the load.
	Rules map[string]any `yaml:"rules,omitempty"`
}

// LocalNames are the repo-local config files, in search order.
var LocalNames = []string{".alguard.yml", ".alguard.yaml", "alguard.yml", "alguard.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal([]byte(textenc.Decode(b)), &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// GlobalPath returns the global config location under the XDG base
// directory or ~/.config, or "" when neither is known.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "alguard", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, errors.New("no config dir")
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// LoadRulesFile reads a standalone rule configuration. JSON is accepted as
// the YAML subset it is; UTF-16 files written by Windows editors are decoded
// first.
func LoadRulesFile(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(textenc.Decode(b)), &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// a config file wrapping its rules under "rules:" is accepted too
	if inner, ok := raw["rules"].(map[string]any); ok {
		return inner, nil
	}
	return raw, nil
}

// Starter returns the configuration written by "alguard config init".
func Starter(prefix string) FileConfig {
	include := "**/*.al"
	exclude := ".alpackages/**"
	failOn := "major"
	format := "table"
	return FileConfig{
		Include: &include,
		Exclude: &exclude,
		FailOn:  &failOn,
		Format:  &format,
		Rules: map[string]any{
			"objectPrefix": map[string]any{
				"requiredPrefix": prefix,
				"severity":       "major",
			},
			"documentation": map[string]any{
				"requireXmlDoc": true,
				"severity":      "major",
			},
			"formatting": map[string]any{
				"braceOnNewLine": true,
				"severity":       "minor",
			},
			"unusedVariable": map[string]any{
				"enabled": true,
			},
		},
	}
}

// WriteFile marshals cfg to path. An existing file is only replaced when
// force is set.
func WriteFile(path string, cfg FileConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
