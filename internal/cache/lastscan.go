package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alguard/alguard/internal/types"
)

const lastScanFormat = 1

// LastScan is the record `propose --last` works from: the findings of the
// latest scan and the content hash of every file they point at.
type LastScan struct {
	Format   int               `json:"format"`
	At       time.Time         `json:"at"`
	Root     string            `json:"root"`
	Files    map[string]string `json:"files"`
	Findings []types.Finding   `json:"findings"`
}

func lastScanPath(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "alguard_last_scan.json")
	}
	return filepath.Join(root, ".alguard_last_scan.json")
}

// RecordScan stores findings as the latest scan of root. Files that cannot
// be read are recorded without a hash and always count as changed.
func RecordScan(root string, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	rec := LastScan{
		Format:   lastScanFormat,
		At:       time.Now().UTC(),
		Root:     root,
		Files:    map[string]string{},
		Findings: findings,
	}
	for _, f := range findings {
		if _, seen := rec.Files[f.File]; seen {
			continue
		}
		rec.Files[f.File] = fileHash(root, f.File)
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(lastScanPath(root), b, 0o644)
}

// LoadLastScan reads the latest scan of root. A record in another format is
// reported as missing.
func LoadLastScan(root string) (LastScan, error) {
	var rec LastScan
	b, err := os.ReadFile(lastScanPath(root))
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, fmt.Errorf("parse last scan: %w", err)
	}
	if rec.Format != lastScanFormat {
		return LastScan{}, fmt.Errorf("last scan format %d: %w", rec.Format, os.ErrNotExist)
	}
	return rec, nil
}

// Changed returns the sorted files whose content differs from when the
// scan was recorded.
func (s LastScan) Changed(root string) []string {
	var out []string
	for file, h := range s.Files {
		if h == "" || fileHash(root, file) != h {
			out = append(out, file)
		}
	}
	sort.Strings(out)
	return out
}

// Current returns the findings whose files are unchanged since the scan.
func (s LastScan) Current(root string) (current []types.Finding, stale []string) {
	stale = s.Changed(root)
	drop := make(map[string]bool, len(stale))
	for _, f := range stale {
		drop[f] = true
	}
	current = make([]types.Finding, 0, len(s.Findings))
	for _, f := range s.Findings {
		if !drop[f.File] {
			current = append(current, f)
		}
	}
	return current, stale
}

func fileHash(root, rel string) string {
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return ""
	}
	return Hash(b)
}
