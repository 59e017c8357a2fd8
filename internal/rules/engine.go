package rules

import (
	"fmt"
	"strings"

	"github.com/alguard/alguard/internal/alsyntax"
	"github.com/alguard/alguard/internal/types"
)

// Evaluate runs every enabled rule against one file's content and returns
// the findings in rule order. It has no side effects.
func Evaluate(file, content string, cfg Config) []types.Finding {
	var out []types.Finding
	if cfg.ObjectPrefix != nil && cfg.selected(ObjectPrefix) {
		out = append(out, checkObjectPrefix(file, content, cfg)...)
	}
	if cfg.Documentation != nil && cfg.selected(XMLDoc) {
		out = append(out, checkXMLDoc(file, content, cfg.Documentation.Severity)...)
	}
	if cfg.Formatting != nil && cfg.selected(BraceOnNewLine) {
		out = append(out, checkBraceOnNewLine(file, content, cfg.Formatting.Severity)...)
	}
	if cfg.UnusedVariable != nil && cfg.selected(UnusedVariable) {
		out = append(out, checkUnusedVariables(file, content)...)
	}
	return out
}

func checkObjectPrefix(file, content string, cfg Config) []types.Finding {
	h, ok := alsyntax.ParseHeader(content)
	if !ok || !cfg.applies(h.Kind) {
		return nil
	}
	prefix := cfg.ObjectPrefix.RequiredPrefix
	if strings.HasPrefix(h.Name, prefix) {
		return nil
	}
	return []types.Finding{{
		Severity: cfg.ObjectPrefix.Severity,
		Rule:     ObjectPrefix,
		File:     file,
		Message:  fmt.Sprintf("%s %q (%d) must start with prefix %q", h.Kind, h.Name, h.ID, prefix),
		Subject:  h.Name,
		Kind:     h.Kind,
		Line:     lineAt(content, h.Offset),
	}}
}

func checkXMLDoc(file, content string, sev types.Severity) []types.Finding {
	decls := alsyntax.Declarations(content)
	if len(decls) == 0 {
		return nil
	}
	ls := alsyntax.Split(content)
	var out []types.Finding
	for _, d := range decls {
		if ls.Documented(d.Line, d.Kind) {
			continue
		}
		label := "Procedure"
		if d.Kind == alsyntax.KindTrigger {
			label = "Trigger"
		}
		out = append(out, types.Finding{
			Severity: sev,
			Rule:     XMLDoc,
			File:     file,
			Message:  fmt.Sprintf("%s %q is missing XML documentation", label, d.Name),
			Subject:  d.Name,
			Kind:     d.Kind,
			Line:     d.Line + 1,
		})
	}
	return out
}

// One finding per offending line, so each can be fixed and re-checked on
// its own.
func checkBraceOnNewLine(file, content string, sev types.Severity) []types.Finding {
	if !strings.Contains(content, "{") {
		return nil
	}
	var out []types.Finding
	for i, l := range alsyntax.Split(content) {
		if alsyntax.BraceOnSameLine(l.Text) < 0 {
			continue
		}
		out = append(out, types.Finding{
			Severity: sev,
			Rule:     BraceOnNewLine,
			File:     file,
			Message:  "Opening brace should be placed on a new line",
			Line:     i + 1,
		})
	}
	return out
}

func checkUnusedVariables(file, content string) []types.Finding {
	var out []types.Finding
	for _, v := range alsyntax.Variables(content) {
		if alsyntax.CountWord(content, v.Name) > 1 {
			continue
		}
		out = append(out, types.Finding{
			Severity: types.SevMinor,
			Rule:     UnusedVariable,
			File:     file,
			Message:  fmt.Sprintf("Variable %q is declared but never used", v.Name),
			Subject:  v.Name,
			Line:     lineAt(content, v.Offset),
		})
	}
	return out
}

func lineAt(content string, off int) int {
	return strings.Count(content[:off], "\n") + 1
}
