package core

import (
	"context"

	"github.com/alguard/alguard/internal/engine"
	"github.com/alguard/alguard/internal/fix"
	"github.com/alguard/alguard/internal/rules"
	"github.com/alguard/alguard/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config       = engine.Config
	Result       = engine.Result
	RuleConfig   = rules.Config
	Finding      = types.Finding
	Severity     = types.Severity
	Position     = types.Position
	Range        = types.Range
	Edit         = types.Edit
	FileProposal = types.FileProposal
	Proposal     = types.Proposal
	FileApplied  = types.FileApplied
	ApplyResult  = types.ApplyResult
	ParseError   = fix.ParseError
)

var (
	ErrInvalidRoot      = engine.ErrInvalidRoot
	ErrOverlappingEdits = fix.ErrOverlappingEdits
	ErrInvalidRange     = fix.ErrInvalidRange
	ErrOutsideRoot      = fix.ErrOutsideRoot
)

// ScanRepository evaluates every .al file under root (or those matching
// includeGlobs) against the rule configuration decoded from ruleCfg.
func ScanRepository(ctx context.Context, root string, includeGlobs []string, ruleCfg map[string]any) ([]Finding, error) {
	return engine.Scan(ctx, Config{
		Root:         root,
		IncludeGlobs: includeGlobs,
		Rules:        rules.ParseConfig(ruleCfg),
	})
}

// Scan is the full-control entrypoint.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, cfg)
}

func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}

// ParseRuleConfig decodes a loose rule map, typically from YAML or JSON.
func ParseRuleConfig(raw map[string]any) RuleConfig {
	return rules.ParseConfig(raw)
}

// EvaluateFile runs the rules against one file's content without touching
// the filesystem.
func EvaluateFile(file, content string, cfg RuleConfig) []Finding {
	return rules.Evaluate(file, content, cfg)
}

// ProposeFixes turns findings into text edits against the current content
// of the files under root.
func ProposeFixes(root string, findings []Finding) (Proposal, error) {
	return fix.Propose(root, findings)
}

// ApplyEdits writes the proposed edits when confirmed is true; otherwise it
// touches nothing and returns the not-confirmed result.
func ApplyEdits(root string, files []FileProposal, confirmed bool) (ApplyResult, error) {
	return fix.Apply(root, files, confirmed)
}

// RuleIDs returns the known rule ids in evaluation order.
func RuleIDs() []string { return rules.IDs() }
