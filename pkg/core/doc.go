// Package core provides a small, stable facade over alguard's internal
// packages for editor integrations and other tools: scanning a repository,
// turning findings into edits, and applying them. JSON shapes use 0-based
// positions with UTF-16 columns and end-exclusive ranges.
//
// Example:
//
//	findings, err := core.ScanRepository(ctx, ".", nil, map[string]any{
//		"objectPrefix": map[string]any{"requiredPrefix": "TES"},
//	})
//	if err != nil { /* handle */ }
//	prop, err := core.ProposeFixes(".", findings)
//	res, err := core.ApplyEdits(".", prop.Files, true)
package core
