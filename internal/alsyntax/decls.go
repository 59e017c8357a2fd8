package alsyntax

import (
	"regexp"
	"strings"
)

// Declaration kinds.
const (
	KindTrigger   = "trigger"
	KindProcedure = "procedure"
)

// Event handler triggers follow the On<Event> naming convention.
const triggerPrefix = "On"

var declRe = regexp.MustCompile(`(?im)^[ \t]*(?:(local|internal|protected)[ \t]+)?(procedure|trigger)[ \t]+(` + identPattern + `)`)

// Declaration is one trigger or procedure occurrence.
type Declaration struct {
	Kind   string // KindTrigger or KindProcedure
	Name   string
	Access string // "local", "internal", "protected" or ""
	Offset int    // byte offset of the start of the declaration line
	Line   int    // 0-based
}

// Declarations returns every trigger and procedure declared in text, in
// source order. A name declared twice yields two entries.
func Declarations(text string) []Declaration {
	ms := declRe.FindAllStringSubmatchIndex(text, -1)
	if len(ms) == 0 {
		return nil
	}
	ls := Split(text)
	out := make([]Declaration, 0, len(ms))
	for _, m := range ms {
		kind := strings.ToLower(text[m[4]:m[5]])
		name := unquote(text[m[6]:m[7]])
		if kind == KindTrigger && !hasPrefixFold(name, triggerPrefix) {
			continue
		}
		d := Declaration{Kind: kind, Name: name, Offset: m[0], Line: ls.LineOf(m[0])}
		if m[2] >= 0 {
			d.Access = strings.ToLower(text[m[2]:m[3]])
		}
		out = append(out, d)
	}
	return out
}

// declKind returns the kind of the declaration starting line, if any.
func declKind(line string) (string, bool) {
	m := declRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	kind := strings.ToLower(m[2])
	if kind == KindTrigger && !hasPrefixFold(unquote(m[3]), triggerPrefix) {
		return "", false
	}
	return kind, true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
