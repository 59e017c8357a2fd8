package report

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/alguard/alguard/internal/types"
)

// DefaultBaselineFile is the baseline looked up at the scan root.
const DefaultBaselineFile = "alguard.baseline.json"

type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// FilterNewFindings drops findings recorded in base.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	out := []types.Finding{}
	for _, f := range findings {
		if !base.Items[key(f)] {
			out = append(out, f)
		}
	}
	return out
}

// Line numbers are left out so edits elsewhere in a file keep old findings
// baselined.
func key(f types.Finding) string {
	return f.File + "|" + f.Rule + "|" + f.Subject + "|" + f.Message
}

// ShouldFail reports whether any finding is at or above the failOn
// severity. An empty or unknown threshold means major; "none" never fails.
func ShouldFail(findings []types.Finding, failOn string) bool {
	failOn = strings.ToLower(strings.TrimSpace(failOn))
	if failOn == "none" {
		return false
	}
	th := types.Severity(failOn).Rank()
	if th == 0 {
		th = types.SevMajor.Rank()
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th {
			return true
		}
	}
	return false
}
