package core

import (
	"encoding/json"
	"io"

	"github.com/alguard/alguard/internal/fix"
)

// MarshalFindings pretty-prints findings as JSON for humans or pipelines.
func MarshalFindings(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes a findings array or a {"findings": [...]}
// object. UTF-16 input is accepted.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return fix.ParseFindings(b)
}

// MarshalProposal pretty-prints a proposal.
func MarshalProposal(w io.Writer, p Proposal) error {
	if p.Files == nil {
		p.Files = []FileProposal{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// DecodeProposal decodes an externally supplied proposal, detecting UTF-8
// and UTF-16 encodings. Malformed JSON yields a *ParseError.
func DecodeProposal(b []byte) (Proposal, error) {
	return fix.ParseProposal(b)
}
