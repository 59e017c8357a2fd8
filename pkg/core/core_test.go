package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRepository_PrefixScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Buffer.Table.al"), []byte("table 50100 \"Customer Buffer\"\n{\n}\n"), 0o644))

	fs, err := ScanRepository(context.Background(), dir, nil, map[string]any{
		"objectPrefix": map[string]any{"requiredPrefix": "TES"},
	})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, Severity("major"), fs[0].Severity)
	assert.Equal(t, "objectPrefix", fs[0].Rule)
	assert.Equal(t, "Buffer.Table.al", fs[0].File)

	fs, err = ScanRepository(context.Background(), dir, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, fs)

	_, err = ScanRepository(context.Background(), filepath.Join(dir, "nope"), nil, nil)
	require.ErrorIs(t, err, ErrInvalidRoot)
}

func TestProposeAndApply_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Mgt.Codeunit.al")
	require.NoError(t, os.WriteFile(path, []byte("var\n  Ctr: Integer;\nbegin\nend;"), 0o644))

	fs, err := ScanRepository(context.Background(), dir, nil, map[string]any{
		"unusedVariable": map[string]any{"enabled": true},
	})
	require.NoError(t, err)
	require.Len(t, fs, 1)

	prop, err := ProposeFixes(dir, fs)
	require.NoError(t, err)
	require.Len(t, prop.Files, 1)

	var buf bytes.Buffer
	require.NoError(t, MarshalProposal(&buf, prop))
	decoded, err := DecodeProposal(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, prop, decoded)

	res, err := ApplyEdits(dir, decoded.Files, false)
	require.NoError(t, err)
	assert.False(t, res.Confirmed)
	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"applied":false,"reason":"not confirmed"}`, string(out))

	res, err = ApplyEdits(dir, decoded.Files, true)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 1, res.Files[0].Applied)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "var\nbegin\nend;", string(got))
}

func TestFindingsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, nil))
	assert.JSONEq(t, `[]`, buf.String())

	in := []Finding{{Severity: "minor", Rule: "braceOnNewLine", File: "a.al", Message: "m", Line: 3}}
	buf.Reset()
	require.NoError(t, MarshalFindings(&buf, in))
	assert.Contains(t, buf.String(), `"severity": "minor"`)

	out, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = UnmarshalFindings(strings.NewReader(`{"findings":[{"severity":"info","rule":"r","file":"f","message":"m"}]}`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Severity("info"), out[0].Severity)
}

func TestDecodeProposal_Errors(t *testing.T) {
	_, err := DecodeProposal([]byte(`{"files": [}`))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.EqualValues(t, 12, pe.Offset)

	p, err := DecodeProposal([]byte(`[{"file":"a.al","edits":[]}]`))
	require.NoError(t, err)
	require.Len(t, p.Files, 1)
	assert.Equal(t, "a.al", p.Files[0].File)
}

func TestEvaluateFileAndRuleIDs(t *testing.T) {
	cfg := ParseRuleConfig(map[string]any{"formatting": map[string]any{"braceOnNewLine": true}})
	fs := EvaluateFile("a.al", "if (x) {\n}\n", cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, "braceOnNewLine", fs[0].Rule)
	assert.Equal(t, []string{"objectPrefix", "xmlDoc", "braceOnNewLine", "unusedVariable"}, RuleIDs())
}
