package alsyntax

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alguard/alguard/internal/types"
)

// Line is one line of a file. Start is the byte offset of the first byte of
// Text; Term is the line's own terminator ("\r\n", "\n" or "" for the last
// line).
type Line struct {
	Start int
	Text  string
	Term  string
}

// End returns the byte offset just past the line's terminator.
func (l Line) End() int { return l.Start + len(l.Text) + len(l.Term) }

// Lines is a file split into lines with per-line terminators, so files with
// mixed CRLF and LF endings still map positions to the right offsets.
type Lines []Line

// Split breaks text into lines. A trailing terminator yields a final empty
// line, which is where an editor would place the cursor at end of file.
func Split(text string) Lines {
	out := make(Lines, 0, 64)
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		end, term := i, "\n"
		if i > start && text[i-1] == '\r' {
			end, term = i-1, "\r\n"
		}
		out = append(out, Line{Start: start, Text: text[start:end], Term: term})
		start = i + 1
	}
	return append(out, Line{Start: start, Text: text[start:]})
}

// LineOf returns the 0-based index of the line containing byte offset off.
func (ls Lines) LineOf(off int) int {
	i := sort.Search(len(ls), func(i int) bool { return ls[i].Start > off })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Offset converts a position to an absolute byte offset. Columns are UTF-16
// code units and may point at most at the end of the line's text.
func (ls Lines) Offset(p types.Position) (int, bool) {
	if p.Line < 0 || p.Line >= len(ls) || p.Column < 0 {
		return 0, false
	}
	l := ls[p.Line]
	b, ok := byteIndex(l.Text, p.Column)
	if !ok {
		return 0, false
	}
	return l.Start + b, true
}

// Terminator returns the terminator used by line n, falling back to the
// first terminator seen in the file and finally to "\n".
func (ls Lines) Terminator(n int) string {
	if n >= 0 && n < len(ls) && ls[n].Term != "" {
		return ls[n].Term
	}
	for _, l := range ls {
		if l.Term != "" {
			return l.Term
		}
	}
	return "\n"
}

// Units counts the UTF-16 code units of s. Invalid bytes count as one unit.
func Units(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}

func byteIndex(s string, units int) (int, bool) {
	seen := 0
	for i := 0; i < len(s); {
		if seen == units {
			return i, true
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w := utf16.RuneLen(r)
		if w < 1 {
			w = 1
		}
		seen += w
		i += size
	}
	if seen == units {
		return len(s), true
	}
	return 0, false
}
