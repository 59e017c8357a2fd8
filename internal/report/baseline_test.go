package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alguard/alguard/internal/types"
)

func TestBaseline_RoundTripAndFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultBaselineFile)
	old := sample()[:2]
	require.NoError(t, SaveBaseline(path, old))

	base, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Len(t, base.Items, 2)

	moved := sample()
	moved[0].Line = 42
	fresh := FilterNewFindings(moved, base)
	require.Len(t, fresh, 1)
	assert.Equal(t, sample()[2], fresh[0])

	assert.NotNil(t, FilterNewFindings(old, base))
	assert.Empty(t, FilterNewFindings(old, base))
}

func TestLoadBaseline_Errors(t *testing.T) {
	dir := t.TempDir()
	b, err := LoadBaseline(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NotNil(t, b.Items)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	b, err = LoadBaseline(bad)
	require.Error(t, err)
	assert.NotNil(t, b.Items)
}

func TestShouldFail(t *testing.T) {
	minor := []types.Finding{{Severity: types.SevMinor}}
	blocker := []types.Finding{{Severity: types.SevBlocker}}
	tests := []struct {
		name     string
		findings []types.Finding
		failOn   string
		want     bool
	}{
		{"empty", nil, "info", false},
		{"default threshold ignores minor", minor, "", false},
		{"default threshold catches blocker", blocker, "", true},
		{"minor threshold", minor, "minor", true},
		{"case and spaces", minor, " MINOR ", true},
		{"unknown means major", minor, "bogus", false},
		{"none never fails", blocker, "none", false},
		{"blocker threshold", minor, "blocker", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldFail(tt.findings, tt.failOn))
		})
	}
}
