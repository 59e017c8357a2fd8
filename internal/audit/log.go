package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alguard/alguard/internal/git"
	"github.com/alguard/alguard/internal/types"
)

// ApplyRecord is one applied edit batch.
type ApplyRecord struct {
	Timestamp time.Time    `json:"timestamp"`
	Root      string       `json:"root"`
	Branch    string       `json:"branch,omitempty"`
	Commit    string       `json:"commit,omitempty"`
	Proposed  int          `json:"proposed_edits"`
	Applied   int          `json:"applied_edits"`
	Failed    int          `json:"failed_files"`
	Files     []FileRecord `json:"files"`
}

type FileRecord struct {
	File     string `json:"file"`
	Proposed int    `json:"proposed"`
	Applied  int    `json:"applied"`
	Error    string `json:"error,omitempty"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".alguard_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "alguard_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// Path returns the file records are appended to.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns records newest first. Lines that fail to decode are
// skipped.
func (a *AuditLog) LoadHistory() ([]ApplyRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ApplyRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ApplyRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogApply(record ApplyRecord) error {
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// CreateApplyRecord summarizes a confirmed apply of files under root.
func CreateApplyRecord(root string, files []types.FileProposal, res types.ApplyResult) ApplyRecord {
	proposed := make(map[string]int, len(files))
	for _, fp := range files {
		proposed[fp.File] += len(fp.Edits)
	}
	meta := git.RepoMetadata(root)
	rec := ApplyRecord{
		Timestamp: time.Now().UTC(),
		Root:      root,
		Branch:    meta.Branch,
		Commit:    meta.Commit,
		Files:     make([]FileRecord, 0, len(res.Files)),
	}
	for _, fa := range res.Files {
		rec.Files = append(rec.Files, FileRecord{
			File:     fa.File,
			Proposed: proposed[fa.File],
			Applied:  fa.Applied,
			Error:    fa.Error,
		})
		rec.Proposed += proposed[fa.File]
		rec.Applied += fa.Applied
		if fa.Error != "" {
			rec.Failed++
		}
	}
	return rec
}
