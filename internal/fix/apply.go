package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alguard/alguard/internal/alsyntax"
	"github.com/alguard/alguard/internal/types"
)

var (
	// ErrOverlappingEdits rejects a file batch whose edits address
	// intersecting spans.
	ErrOverlappingEdits = errors.New("overlapping edits")
	// ErrInvalidRange is returned for a position outside the file or a range
	// whose end precedes its start.
	ErrInvalidRange = errors.New("invalid edit range")
)

// Apply writes the proposed edits when confirmed is true. Without
// confirmation nothing is touched and the not-confirmed result is returned
// with a nil error.
//
// Files are independent: a failure is recorded on that file's entry, files
// written before it stay written, and the returned error joins every
// per-file failure.
func Apply(root string, files []types.FileProposal, confirmed bool, opts ...Option) (types.ApplyResult, error) {
	if !confirmed {
		return types.NotConfirmed(), nil
	}
	s := newSettings(opts)
	res := types.ApplyResult{Confirmed: true, Files: make([]types.FileApplied, 0, len(files))}
	var errs []error
	for _, fp := range files {
		entry := types.FileApplied{File: fp.File}
		n, err := applyFile(root, fp)
		if err != nil {
			entry.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", fp.File, err))
			s.log.WithField("file", fp.File).WithError(err).Warn("edits not applied")
		} else {
			entry.Applied = n
			s.log.WithField("file", fp.File).WithField("edits", n).Debug("applied edits")
		}
		res.Files = append(res.Files, entry)
	}
	return res, errors.Join(errs...)
}

func applyFile(root string, fp types.FileProposal) (int, error) {
	if len(fp.Edits) == 0 {
		return 0, nil
	}
	path, err := Resolve(root, fp.File)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	out, err := ApplyText(string(b), fp.Edits)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return 0, err
	}
	return len(fp.Edits), nil
}

type span struct {
	start, end int
	text       string
}

// ApplyText applies edits to text in memory. Every edit is resolved against
// the original text, so the order of edits in the slice does not matter.
func ApplyText(text string, edits []types.Edit) (string, error) {
	ls := alsyntax.Split(text)
	spans := make([]span, len(edits))
	for i, e := range edits {
		start, ok := ls.Offset(e.Range.Start)
		if !ok {
			return "", fmt.Errorf("%w: edit %d start %d:%d", ErrInvalidRange, i, e.Range.Start.Line, e.Range.Start.Column)
		}
		end, ok := ls.Offset(e.Range.End)
		if !ok {
			return "", fmt.Errorf("%w: edit %d end %d:%d", ErrInvalidRange, i, e.Range.End.Line, e.Range.End.Column)
		}
		if end < start {
			return "", fmt.Errorf("%w: edit %d ends before it starts", ErrInvalidRange, i)
		}
		spans[i] = span{start: start, end: end, text: e.NewText}
	}
	if err := checkOverlap(spans); err != nil {
		return "", err
	}

	// Descending order keeps the offsets of not-yet-applied edits valid.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start > spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	var sb strings.Builder
	out := text
	for _, sp := range spans {
		sb.Reset()
		sb.Grow(len(out) - (sp.end - sp.start) + len(sp.text))
		sb.WriteString(out[:sp.start])
		sb.WriteString(sp.text)
		sb.WriteString(out[sp.end:])
		out = sb.String()
	}
	return out, nil
}

// checkOverlap rejects spans that intersect. Two insertions at the same
// offset also conflict since their relative order would be arbitrary. An
// insertion touching either boundary of a replaced span is allowed.
func checkOverlap(spans []span) error {
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})
	maxEnd := -1
	for i, cur := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			sameInsert := prev.start == prev.end && cur.start == cur.end && prev.start == cur.start
			if cur.start < maxEnd || sameInsert {
				return fmt.Errorf("%w: bytes %d-%d and %d-%d", ErrOverlappingEdits, prev.start, prev.end, cur.start, cur.end)
			}
		}
		if cur.end > maxEnd {
			maxEnd = cur.end
		}
	}
	return nil
}
