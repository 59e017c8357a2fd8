package types

import "encoding/json"

// Severity is the ordinal classification of a finding.
type Severity string

const (
	SevBlocker Severity = "blocker"
	SevMajor   Severity = "major"
	SevMinor   Severity = "minor"
	SevInfo    Severity = "info"
)

// Rank orders severities so that blocker > major > minor > info. Unknown
// values rank below info.
func (s Severity) Rank() int {
	switch s {
	case SevBlocker:
		return 4
	case SevMajor:
		return 3
	case SevMinor:
		return 2
	case SevInfo:
		return 1
	}
	return 0
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool { return s.Rank() > 0 }

// Finding describes a single rule violation in a file. File is relative to
// the scanned root and uses forward slashes.
//
// Subject carries the flagged identifier (variable, member or object name) so
// fix proposals never have to re-derive it from Message.
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	File     string   `json:"file"`
	Message  string   `json:"message"`
	Subject  string   `json:"subject,omitempty"`
	Kind     string   `json:"kind,omitempty"` // trigger, procedure or object kind
	Line     int      `json:"line,omitempty"` // 1-based, 0 if unknown
}

// Position is a 0-based line and column. Columns count UTF-16 code units.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is end-exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Empty reports whether the range addresses no text (a pure insertion point).
func (r Range) Empty() bool { return r.Start == r.End }

// Edit replaces the addressed span with NewText. An empty NewText deletes the
// span; an empty range inserts.
type Edit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// FileProposal groups the edits computed for one file.
type FileProposal struct {
	File  string `json:"file"`
	Edits []Edit `json:"edits"`
}

// Proposal is a batch of not-yet-applied edits. Only files with at least one
// edit are listed.
type Proposal struct {
	Files []FileProposal `json:"files"`
}

// FileApplied reports how many edits were written to one file. Error is set
// when the file's batch was rejected or could not be written.
type FileApplied struct {
	File    string `json:"file"`
	Applied int    `json:"applied"`
	Error   string `json:"error,omitempty"`
}

// ApplyResult is the outcome of an apply request. When Confirmed is false no
// file was touched and the result serializes as
// {"applied": false, "reason": "..."}.
type ApplyResult struct {
	Confirmed bool
	Reason    string
	Files     []FileApplied
}

// NotConfirmed is the documented no-op outcome of an unconfirmed apply.
func NotConfirmed() ApplyResult {
	return ApplyResult{Reason: "not confirmed"}
}

// Total returns the number of edits written across all files.
func (r ApplyResult) Total() int {
	n := 0
	for _, f := range r.Files {
		n += f.Applied
	}
	return n
}

func (r ApplyResult) MarshalJSON() ([]byte, error) {
	if !r.Confirmed {
		return json.Marshal(struct {
			Applied bool   `json:"applied"`
			Reason  string `json:"reason"`
		}{false, r.Reason})
	}
	files := r.Files
	if files == nil {
		files = []FileApplied{}
	}
	return json.Marshal(struct {
		Applied []FileApplied `json:"applied"`
	}{files})
}

func (r *ApplyResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Applied json.RawMessage `json:"applied"`
		Reason  string          `json:"reason"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = ApplyResult{Reason: raw.Reason}
	if len(raw.Applied) > 0 && raw.Applied[0] == '[' {
		r.Confirmed = true
		return json.Unmarshal(raw.Applied, &r.Files)
	}
	return nil
}
