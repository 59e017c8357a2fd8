package alsyntax

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	varSectionRe = regexp.MustCompile(`(?im)^[ \t]*var\b`)
	beginRe      = regexp.MustCompile(`(?i)\bbegin\b`)
	varDeclRe    = regexp.MustCompile(`(?im)^[ \t]*(?:var[ \t]+)?([A-Za-z_][A-Za-z0-9_]*)[ \t]*:[ \t]*[^;\r\n]+;`)
	braceRe      = regexp.MustCompile(`\)[ \t]*\{`)
)

// VarSection returns the byte span between the first var keyword and the
// first begin keyword after it. Without a begin the span runs to the end of
// text.
func VarSection(text string) (start, end int, ok bool) {
	v := varSectionRe.FindStringIndex(text)
	if v == nil {
		return 0, 0, false
	}
	start, end = v[1], len(text)
	if b := beginRe.FindStringIndex(text[start:]); b != nil {
		end = start + b[0]
	}
	return start, end, true
}

// Variable is a `Name: Type;` declaration inside the var section. The
// first one may share its line with the var keyword.
type Variable struct {
	Name   string
	Offset int // byte offset of the declaration line
}

// Variables returns the declarations of the first var section.
func Variables(text string) []Variable {
	start, end, ok := VarSection(text)
	if !ok {
		return nil
	}
	start = strings.LastIndexByte(text[:start], '\n') + 1
	var out []Variable
	for _, m := range varDeclRe.FindAllStringSubmatchIndex(text[start:end], -1) {
		out = append(out, Variable{Name: text[start+m[2] : start+m[3]], Offset: start + m[0]})
	}
	return out
}

// VariableSpan returns the byte range of a `name: Type;` declaration on
// line. A leading var keyword is not part of the span.
func VariableSpan(line, name string) (start, end int, ok bool) {
	m := varDeclRe.FindStringSubmatchIndex(line)
	if m == nil || !strings.EqualFold(line[m[2]:m[3]], name) {
		return 0, 0, false
	}
	return m[2], m[1], true
}

// BraceOnSameLine returns the byte index of the `{` that follows a `)` on
// the same line, or -1.
func BraceOnSameLine(line string) int {
	m := braceRe.FindStringIndex(line)
	if m == nil {
		return -1
	}
	return m[1] - 1
}

// AL identifiers are case-insensitive, so word counts ignore case.
var wordPatterns = mustLRU(512)

func mustLRU(size int) *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(err)
	}
	return c
}

// CountWord counts whole-word occurrences of name in text. Occurrences in
// comments and string literals count too.
func CountWord(text, name string) int {
	re, ok := wordPatterns.Get(name)
	if !ok {
		re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		wordPatterns.Add(name, re)
	}
	return len(re.FindAllStringIndex(text, -1))
}
