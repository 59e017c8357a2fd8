package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alguard/alguard/internal/alsyntax"
	"github.com/alguard/alguard/internal/fix"
	"github.com/alguard/alguard/internal/types"
)

// Diff renders a proposal as a unified-style diff against the files under
// root, one hunk per edit. Nothing is written. A file whose edits would be
// rejected by Apply makes Diff fail with the same error.
func Diff(root string, prop types.Proposal) (string, error) {
	var sb strings.Builder
	for _, fp := range prop.Files {
		path, err := fix.Resolve(root, fp.File)
		if err != nil {
			return "", err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", fp.File, err)
		}
		text := string(b)
		if _, err := fix.ApplyText(text, fp.Edits); err != nil {
			return "", fmt.Errorf("%s: %w", fp.File, err)
		}
		fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", fp.File, fp.File)
		ls := alsyntax.Split(text)
		edits := append([]types.Edit(nil), fp.Edits...)
		sort.SliceStable(edits, func(i, j int) bool {
			a, b := edits[i].Range.Start, edits[j].Range.Start
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			return a.Column < b.Column
		})
		for _, e := range edits {
			writeHunk(&sb, text, ls, e)
		}
	}
	return sb.String(), nil
}

func writeHunk(sb *strings.Builder, text string, ls alsyntax.Lines, e types.Edit) {
	start, _ := ls.Offset(e.Range.Start)
	end, _ := ls.Offset(e.Range.End)
	first := ls.LineOf(start)
	lastOff := end
	if end > start && end == ls[ls.LineOf(end)].Start {
		// a range ending at the start of a line only touches the line before
		lastOff = end - 1
	}
	last := ls.LineOf(lastOff)
	regionStart := ls[first].Start
	regionEnd := ls[last].Start + len(ls[last].Text)

	var oldText, newText string
	if end > regionEnd {
		oldText = text[regionStart:end]
		newText = text[regionStart:start] + e.NewText
	} else {
		oldText = text[regionStart:regionEnd]
		newText = text[regionStart:start] + e.NewText + text[end:regionEnd]
	}
	oldLines, newLines := diffLines(oldText), diffLines(newText)
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", first+1, len(oldLines), first+1, len(newLines))
	for _, l := range oldLines {
		sb.WriteString("-" + l + "\n")
	}
	for _, l := range newLines {
		sb.WriteString("+" + l + "\n")
	}
}

func diffLines(s string) []string {
	s = strings.TrimSuffix(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// PrintPreview writes the diff of a proposal, highlighted unless noColor.
func PrintPreview(w io.Writer, root string, prop types.Proposal, noColor bool) error {
	diff, err := Diff(root, prop)
	if err != nil {
		return err
	}
	if diff == "" {
		_, err = fmt.Fprintln(w, "Nothing to change")
		return err
	}
	if noColor {
		_, err = io.WriteString(w, diff)
		return err
	}
	_, err = io.WriteString(w, highlightDiff(diff))
	return err
}

func highlightDiff(diff string) string {
	lexer := lexers.Get("diff")
	if lexer == nil {
		return diff
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, diff)
	if err != nil {
		return diff
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return diff
	}
	return buf.String()
}
