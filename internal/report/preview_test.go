package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alguard/alguard/internal/fix"
	"github.com/alguard/alguard/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Column: col} }

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	src := "codeunit 50100 \"TES Mgt\"\n{\n    var\n        Ctr: Integer;\n    procedure Run()\n    begin\n    end;\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mgt.al"), []byte(src), 0o644))

	prop := types.Proposal{Files: []types.FileProposal{{
		File: "Mgt.al",
		Edits: []types.Edit{
			{Range: types.Range{Start: pos(4, 0), End: pos(4, 0)}, NewText: "    /// <summary>\n    /// Run.\n    /// </summary>\n"},
			{Range: types.Range{Start: pos(3, 0), End: pos(4, 0)}},
		},
	}}}

	got, err := Diff(dir, prop)
	require.NoError(t, err)
	want := "--- a/Mgt.al\n+++ b/Mgt.al\n" +
		"@@ -4,1 +4,0 @@\n" +
		"-        Ctr: Integer;\n" +
		"@@ -5,1 +5,4 @@\n" +
		"-    procedure Run()\n" +
		"+    /// <summary>\n" +
		"+    /// Run.\n" +
		"+    /// </summary>\n" +
		"+    procedure Run()\n"
	assert.Equal(t, want, got)

	after, err := os.ReadFile(filepath.Join(dir, "Mgt.al"))
	require.NoError(t, err)
	assert.Equal(t, src, string(after))
}

func TestDiff_Replacement(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.al"), []byte("if (x) {\r\nend\r\n"), 0o644))
	prop := types.Proposal{Files: []types.FileProposal{{
		File:  "a.al",
		Edits: []types.Edit{{Range: types.Range{Start: pos(0, 0), End: pos(0, 8)}, NewText: "if (x)\r\n{"}},
	}}}
	got, err := Diff(dir, prop)
	require.NoError(t, err)
	assert.Equal(t, "--- a/a.al\n+++ b/a.al\n@@ -1,1 +1,2 @@\n-if (x) {\n+if (x)\n+{\n", got)
}

func TestDiff_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.al"), []byte("abc\n"), 0o644))

	_, err := Diff(dir, types.Proposal{Files: []types.FileProposal{{
		File: "a.al",
		Edits: []types.Edit{
			{Range: types.Range{Start: pos(0, 0), End: pos(0, 2)}},
			{Range: types.Range{Start: pos(0, 1), End: pos(0, 3)}},
		},
	}}})
	require.ErrorIs(t, err, fix.ErrOverlappingEdits)

	_, err = Diff(dir, types.Proposal{Files: []types.FileProposal{{File: "../x.al"}}})
	require.ErrorIs(t, err, fix.ErrOutsideRoot)

	_, err = Diff(dir, types.Proposal{Files: []types.FileProposal{{File: "missing.al"}}})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintPreview(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, PrintPreview(&buf, dir, types.Proposal{}, true))
	assert.Equal(t, "Nothing to change\n", buf.String())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.al"), []byte("x\n"), 0o644))
	prop := types.Proposal{Files: []types.FileProposal{{
		File:  "a.al",
		Edits: []types.Edit{{Range: types.Range{Start: pos(0, 0), End: pos(0, 1)}, NewText: "y"}},
	}}}
	buf.Reset()
	require.NoError(t, PrintPreview(&buf, dir, prop, true))
	assert.Contains(t, buf.String(), "-x\n+y\n")

	buf.Reset()
	require.NoError(t, PrintPreview(&buf, dir, prop, false))
	assert.Contains(t, buf.String(), "x")
	assert.Contains(t, buf.String(), "y")
}
