package alsyntax

import "strings"

const docMarker = "///"

// HasDocComment reports whether a /// documentation line appears above
// decl with no earlier declaration of the same kind in between. The block
// need not be adjacent: any lines, including attributes or a declaration
// of the other kind, may separate it from decl.
func HasDocComment(text string, decl Declaration) bool {
	return Split(text).Documented(decl.Line, decl.Kind)
}

// Documented is HasDocComment for an already split file.
func (ls Lines) Documented(line int, kind string) bool {
	for i := line - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(ls[i].Text), docMarker) {
			return true
		}
		if k, ok := declKind(ls[i].Text); ok && k == kind {
			return false
		}
	}
	return false
}

// DocAnchor returns the line a documentation block for the declaration on
// line should start at: above any attribute lines attached to it.
func (ls Lines) DocAnchor(line int) int {
	anchor := line
	for i := line - 1; i >= 0; i-- {
		t := strings.TrimSpace(ls[i].Text)
		if !isAttribute(t) {
			break
		}
		anchor = i
	}
	return anchor
}

// Indent returns the leading whitespace of line n.
func (ls Lines) Indent(n int) string {
	t := ls[n].Text
	return t[:len(t)-len(strings.TrimLeft(t, " \t"))]
}

func isAttribute(t string) bool {
	return strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")
}
