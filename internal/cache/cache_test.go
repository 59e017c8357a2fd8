package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alguard/alguard/internal/types"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	db, err := Load(dir, "cfg1")
	require.Error(t, err, "no cache file yet")
	require.NotNil(t, db.Entries)

	f := types.Finding{Severity: types.SevMinor, Rule: "unusedVariable", File: "a.al", Message: "m", Subject: "Ctr"}
	db.Store("a.al", "deadbeef", []types.Finding{f})
	require.NoError(t, Save(dir, db))
	_, err = os.Stat(filepath.Join(dir, ".alguardcache.json"))
	require.NoError(t, err)

	db2, err := Load(dir, "cfg1")
	require.NoError(t, err)
	got, ok := db2.Lookup("a.al", "deadbeef")
	require.True(t, ok)
	assert.Equal(t, []types.Finding{f}, got)

	_, ok = db2.Lookup("a.al", "cafebabe")
	assert.False(t, ok, "content changed")
}

func TestLoad_ConfigChangeInvalidates(t *testing.T) {
	dir := t.TempDir()
	db := New("cfg1")
	db.Store("a.al", "h", nil)
	require.NoError(t, Save(dir, db))

	db2, err := Load(dir, "cfg2")
	require.NoError(t, err)
	assert.Empty(t, db2.Entries)
	assert.Equal(t, "cfg2", db2.ConfigHash)
}

func TestSave_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	db := New("c")
	db.Store("a.al", "h", nil)
	require.NoError(t, Save(dir, db))
	_, err := os.Stat(filepath.Join(dir, ".git", "alguardcache.json"))
	require.NoError(t, err)
}

func TestStore_Concurrent(t *testing.T) {
	db := New("c")
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db.Store(filepath.Join("src", string(rune('a'+i%26))+".al"), Hash([]byte{byte(i)}), nil)
		}(i)
	}
	wg.Wait()
	assert.Len(t, db.Entries, 26)
}

func TestHash(t *testing.T) {
	assert.Equal(t, "0000000000000000", Hash(nil))
	assert.Len(t, Hash([]byte("table 50100")), 16)
	assert.Equal(t, Hash([]byte("x")), Hash([]byte("x")))
	assert.NotEqual(t, ConfigHash(map[string]any{"a": 1}), ConfigHash(map[string]any{"a": 2}))
}

func TestLastScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.al"), []byte("procedure A() {\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.al"), []byte("procedure B() {\n"), 0o644))
	fs := []types.Finding{
		{Severity: types.SevMinor, Rule: "braceOnNewLine", File: "a.al", Message: "m", Line: 1},
		{Severity: types.SevMinor, Rule: "braceOnNewLine", File: "b.al", Message: "m", Line: 1},
		{Severity: types.SevMajor, Rule: "xmlDoc", File: "gone.al", Message: "m"},
	}
	require.NoError(t, RecordScan(dir, fs))

	got, err := LoadLastScan(dir)
	require.NoError(t, err)
	assert.Equal(t, fs, got.Findings)
	assert.Equal(t, dir, got.Root)
	assert.Len(t, got.Files, 3)
	assert.Equal(t, []string{"gone.al"}, got.Changed(dir), "unreadable files never match")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.al"), []byte("procedure B()\n{\n"), 0o644))
	current, stale := got.Current(dir)
	assert.Equal(t, []string{"b.al", "gone.al"}, stale)
	assert.Equal(t, fs[:1], current)
}

func TestLoadLastScan_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadLastScan(dir)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".alguard_last_scan.json"), []byte(`{"findings":[]}`), 0o644))
	_, err = LoadLastScan(dir)
	assert.ErrorIs(t, err, os.ErrNotExist, "record without a format")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".alguard_last_scan.json"), []byte(`{`), 0o644))
	_, err = LoadLastScan(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse last scan")
}
