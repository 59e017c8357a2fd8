package alsyntax

import (
	"regexp"
	"strconv"
	"strings"
)

// ObjectKinds is the closed set of object kinds a header can declare.
var ObjectKinds = []string{
	"table", "tableextension",
	"page", "pageextension",
	"codeunit",
	"report", "reportextension",
	"query", "xmlport",
	"enum", "enumextension",
	"interface",
	"permissionset", "permissionsetextension",
	"profile", "controladdin", "entitlement",
}

const (
	quotedPattern = `"[^"\r\n]+"`
	identPattern  = quotedPattern + `|[A-Za-z_][A-Za-z0-9_]*`
)

// A header starts its own line and names the object in quotes.
var headerRe = regexp.MustCompile(`(?im)^[ \t]*(` + kindAlternation() + `)[ \t]+(\d+)[ \t]+(` +
	quotedPattern + `)(?:[ \t]+extends[ \t]+(` + identPattern + `))?`)

// longest kinds first so "tableextension" is never read as "table"
func kindAlternation() string {
	kinds := append([]string(nil), ObjectKinds...)
	for i := 1; i < len(kinds); i++ {
		for j := i; j > 0 && len(kinds[j]) > len(kinds[j-1]); j-- {
			kinds[j], kinds[j-1] = kinds[j-1], kinds[j]
		}
	}
	return strings.Join(kinds, "|")
}

// Header is the primary object declared by a file.
type Header struct {
	Kind    string // lower-case, one of ObjectKinds
	ID      int
	Name    string
	Extends string
	Offset  int // byte offset of the declaration
}

// ParseHeader returns the first object declaration in text, if any.
func ParseHeader(text string) (Header, bool) {
	m := headerRe.FindStringSubmatchIndex(text)
	if m == nil {
		return Header{}, false
	}
	id, err := strconv.Atoi(text[m[4]:m[5]])
	if err != nil {
		// more digits than an int holds; the pattern matched but the id is unusable
		return Header{}, false
	}
	h := Header{
		Kind:   strings.ToLower(text[m[2]:m[3]]),
		ID:     id,
		Name:   unquote(text[m[6]:m[7]]),
		Offset: m[2],
	}
	if m[8] >= 0 {
		h.Extends = unquote(text[m[8]:m[9]])
	}
	return h, true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
