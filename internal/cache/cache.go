package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/alguard/alguard/internal/types"
)

// Entry remembers the findings produced for one content hash.
type Entry struct {
	Hash     string          `json:"hash"`
	Findings []types.Finding `json:"findings"`
}

// DB maps root-relative paths to the last evaluated content. It is only
// valid for the rule configuration whose hash is ConfigHash. Lookup and
// Store are safe for concurrent use.
type DB struct {
	ConfigHash string           `json:"configHash"`
	Entries    map[string]Entry `json:"entries"`

	mu    sync.Mutex
	dirty bool
}

// New returns an empty DB bound to configHash.
func New(configHash string) *DB {
	return &DB{ConfigHash: configHash, Entries: map[string]Entry{}}
}

func defaultPath(root string) string {
	// Prefer storing cache under .git to avoid accidental commits
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "alguardcache.json")
	}
	return filepath.Join(root, ".alguardcache.json")
}

// Load reads the cache under root. A missing or unreadable cache, or one
// written for another rule configuration, yields an empty DB; the error is
// returned for logging only.
func Load(root, configHash string) (*DB, error) {
	b, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return New(configHash), err
	}
	var db DB
	if err := json.Unmarshal(b, &db); err != nil {
		return New(configHash), err
	}
	if db.ConfigHash != configHash || db.Entries == nil {
		return New(configHash), nil
	}
	return &db, nil
}

// Save writes db under root when it changed since Load.
func Save(root string, db *DB) error {
	if db == nil || db.Entries == nil {
		return errors.New("empty cache")
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.dirty {
		return nil
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(defaultPath(root), b, 0o644); err != nil {
		return err
	}
	db.dirty = false
	return nil
}

// Lookup returns the cached findings for path when its content hash still
// matches.
func (db *DB) Lookup(path, hash string) ([]types.Finding, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.Entries[path]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return append([]types.Finding(nil), e.Findings...), true
}

// Store records the findings for path at hash.
func (db *DB) Store(path, hash string, findings []types.Finding) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e, ok := db.Entries[path]; ok && e.Hash == hash {
		return
	}
	db.Entries[path] = Entry{Hash: hash, Findings: append([]types.Finding(nil), findings...)}
	db.dirty = true
}

// Hash is the content fingerprint used for cache entries.
func Hash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// ConfigHash fingerprints any JSON-serializable configuration value.
func ConfigHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return Hash(b)
}
