package fix

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alguard/alguard/internal/textenc"
	"github.com/alguard/alguard/internal/types"
)

// ParseError reports malformed proposal or findings JSON. Offset is the byte
// offset into the decoded text where the problem was detected.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseProposal decodes an externally supplied proposal. The payload may be
// UTF-8 or UTF-16 (see textenc) and may be a {"files": [...]} object or a bare
// array of file proposals.
func ParseProposal(b []byte) (types.Proposal, error) {
	text := textenc.Decode(b)
	if isArray(text) {
		var files []types.FileProposal
		if err := unmarshal(text, &files); err != nil {
			return types.Proposal{}, err
		}
		return types.Proposal{Files: files}, nil
	}
	var p types.Proposal
	if err := unmarshal(text, &p); err != nil {
		return types.Proposal{}, err
	}
	return p, nil
}

// ParseFindings decodes a findings payload: a bare array or a
// {"findings": [...]} object.
func ParseFindings(b []byte) ([]types.Finding, error) {
	text := textenc.Decode(b)
	if isArray(text) {
		var fs []types.Finding
		if err := unmarshal(text, &fs); err != nil {
			return nil, err
		}
		return fs, nil
	}
	var wrapped struct {
		Findings []types.Finding `json:"findings"`
	}
	if err := unmarshal(text, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Findings, nil
}

func isArray(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "[")
}

func unmarshal(text string, v any) error {
	if strings.TrimSpace(text) == "" {
		return &ParseError{Err: errors.New("empty payload")}
	}
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Offset: syn.Offset, Err: err}
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return &ParseError{Offset: typ.Offset, Err: err}
	}
	return &ParseError{Err: err}
}
