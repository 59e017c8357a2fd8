package rules

import (
	"strings"

	"github.com/alguard/alguard/internal/types"
)

// Config is the parsed rule configuration. A nil section means the rule is
// off: absent keys and values of the wrong type both disable a rule rather
// than failing the load.
type Config struct {
	ObjectPrefix   *ObjectPrefixConfig   `json:"objectPrefix,omitempty"`
	Documentation  *DocumentationConfig  `json:"documentation,omitempty"`
	Formatting     *FormattingConfig     `json:"formatting,omitempty"`
	UnusedVariable *UnusedVariableConfig `json:"unusedVariable,omitempty"`

	// Only restricts evaluation to these rule ids; Skip removes rule ids.
	// Ids that name no rule match nothing.
	Only []string `json:"only,omitempty"`
	Skip []string `json:"skip,omitempty"`
}

type ObjectPrefixConfig struct {
	RequiredPrefix string         `json:"requiredPrefix"`
	ApplyTo        []string       `json:"applyTo,omitempty"` // empty = every object kind
	Severity       types.Severity `json:"severity"`
}

type DocumentationConfig struct {
	Severity types.Severity `json:"severity"`
}

type FormattingConfig struct {
	Severity types.Severity `json:"severity"`
}

type UnusedVariableConfig struct{}

// ParseConfig reads the loose rule map decoded from YAML or JSON:
//
//	objectPrefix:   {requiredPrefix: TES, applyTo: [table, page], severity: major}
//	documentation:  {requireXmlDoc: true, severity: major}
//	formatting:     {braceOnNewLine: true, severity: minor}
//	unusedVariable: {enabled: true}
//
// Unknown keys are ignored.
func ParseConfig(raw map[string]any) Config {
	var cfg Config
	if sec, ok := section(raw, "objectPrefix"); ok {
		cfg.ObjectPrefix = parseObjectPrefix(sec)
	}
	if sec, ok := section(raw, "documentation"); ok && flag(sec, "requireXmlDoc") {
		if sev, ok := severity(sec, types.SevMajor); ok {
			cfg.Documentation = &DocumentationConfig{Severity: sev}
		}
	}
	if sec, ok := section(raw, "formatting"); ok && flag(sec, "braceOnNewLine") {
		if sev, ok := severity(sec, types.SevMinor); ok {
			cfg.Formatting = &FormattingConfig{Severity: sev}
		}
	}
	if sec, ok := section(raw, "unusedVariable"); ok && flag(sec, "enabled") {
		cfg.UnusedVariable = &UnusedVariableConfig{}
	}
	return cfg
}

func parseObjectPrefix(sec map[string]any) *ObjectPrefixConfig {
	prefix, ok := sec["requiredPrefix"].(string)
	if !ok || prefix == "" {
		return nil
	}
	sev, ok := severity(sec, types.SevMajor)
	if !ok {
		return nil
	}
	c := &ObjectPrefixConfig{RequiredPrefix: prefix, Severity: sev}
	switch v := sec["applyTo"].(type) {
	case nil:
	case string:
		c.ApplyTo = []string{strings.ToLower(v)}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			c.ApplyTo = append(c.ApplyTo, strings.ToLower(s))
		}
		if len(c.ApplyTo) == 0 {
			return nil
		}
	case []string:
		for _, s := range v {
			c.ApplyTo = append(c.ApplyTo, strings.ToLower(s))
		}
	default:
		return nil
	}
	return c
}

// section returns raw[key] as a string-keyed map. yaml.v3 yields
// map[string]any for string keys but map[any]any is accepted too.
func section(raw map[string]any, key string) (map[string]any, bool) {
	switch v := raw[key].(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func flag(sec map[string]any, key string) bool {
	b, ok := sec[key].(bool)
	return ok && b
}

// severity returns the configured override or def. A non-string value is
// malformed and disables the rule; an unknown severity name keeps def.
func severity(sec map[string]any, def types.Severity) (types.Severity, bool) {
	v, present := sec["severity"]
	if !present || v == nil {
		return def, true
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if sev := types.Severity(strings.ToLower(s)); sev.Valid() {
		return sev, true
	}
	return def, true
}

func (c Config) applies(kind string) bool {
	if c.ObjectPrefix == nil {
		return false
	}
	if len(c.ObjectPrefix.ApplyTo) == 0 {
		return true
	}
	for _, k := range c.ObjectPrefix.ApplyTo {
		if k == kind {
			return true
		}
	}
	return false
}

func (c Config) selected(id string) bool {
	if len(c.Only) > 0 && !contains(c.Only, id) {
		return false
	}
	return !contains(c.Skip, id)
}

func contains(list []string, id string) bool {
	for _, s := range list {
		if strings.TrimSpace(s) == id {
			return true
		}
	}
	return false
}
