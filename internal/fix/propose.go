package fix

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alguard/alguard/internal/alsyntax"
	"github.com/alguard/alguard/internal/rules"
	"github.com/alguard/alguard/internal/types"
)

// quotedRe pulls the flagged identifier out of findings produced before
// Subject existed.
var quotedRe = regexp.MustCompile(`"([^"]+)"`)

// Propose computes at most one edit per finding. Files are read fresh from
// root rather than reusing scan-time content, grouped in first-seen order,
// and omitted when they yield no edit. Edits are not deduplicated; Apply
// rejects a file whose edits overlap.
func Propose(root string, findings []types.Finding, opts ...Option) (types.Proposal, error) {
	s := newSettings(opts)
	var order []string
	byFile := make(map[string][]types.Finding)
	for _, f := range findings {
		if _, seen := byFile[f.File]; !seen {
			order = append(order, f.File)
		}
		byFile[f.File] = append(byFile[f.File], f)
	}

	prop := types.Proposal{Files: []types.FileProposal{}}
	for _, file := range order {
		path, err := Resolve(root, file)
		if err != nil {
			return types.Proposal{}, err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return types.Proposal{}, fmt.Errorf("read %s: %w", file, err)
		}
		text := string(b)
		ls := alsyntax.Split(text)
		var edits []types.Edit
		for _, f := range byFile[file] {
			e, ok := proposeEdit(text, ls, f)
			if !ok {
				s.log.WithField("file", file).WithField("rule", f.Rule).Debug("no edit for finding")
				continue
			}
			edits = append(edits, e)
		}
		if len(edits) == 0 {
			continue
		}
		s.log.WithField("file", file).WithField("edits", len(edits)).Debug("proposed edits")
		prop.Files = append(prop.Files, types.FileProposal{File: file, Edits: edits})
	}
	return prop, nil
}

func proposeEdit(text string, ls alsyntax.Lines, f types.Finding) (types.Edit, bool) {
	switch f.Rule {
	case rules.UnusedVariable:
		return removeVariable(text, ls, subject(f))
	case rules.XMLDoc:
		return insertDocStub(text, ls, f)
	case rules.BraceOnNewLine:
		return moveBrace(ls, f.Line)
	}
	return types.Edit{}, false
}

// subject returns the flagged identifier, falling back to the first quoted
// token of the message.
func subject(f types.Finding) string {
	if f.Subject != "" {
		return f.Subject
	}
	if m := quotedRe.FindStringSubmatch(f.Message); m != nil {
		return m[1]
	}
	return ""
}

func removeVariable(text string, ls alsyntax.Lines, name string) (types.Edit, bool) {
	if name == "" {
		return types.Edit{}, false
	}
	first, last := 0, len(ls)-1
	if start, end, ok := alsyntax.VarSection(text); ok {
		first, last = ls.LineOf(start), ls.LineOf(end)
	}
	for n := first; n <= last; n++ {
		line := ls[n].Text
		start, stop, ok := alsyntax.VariableSpan(line, name)
		if !ok {
			continue
		}
		if head := strings.TrimRight(line[:start], " \t"); strings.TrimSpace(head) != "" {
			// keep the var keyword sharing the line
			return types.Edit{Range: types.Range{
				Start: types.Position{Line: n, Column: alsyntax.Units(head)},
				End:   types.Position{Line: n, Column: alsyntax.Units(line[:stop])},
			}}, true
		}
		end := types.Position{Line: n + 1}
		if n+1 >= len(ls) {
			end = types.Position{Line: n, Column: alsyntax.Units(ls[n].Text)}
		}
		return types.Edit{Range: types.Range{Start: types.Position{Line: n}, End: end}}, true
	}
	return types.Edit{}, false
}

func insertDocStub(text string, ls alsyntax.Lines, f types.Finding) (types.Edit, bool) {
	name := subject(f)
	if name == "" {
		return types.Edit{}, false
	}
	var target *alsyntax.Declaration
	decls := alsyntax.Declarations(text)
	for i := range decls {
		d := &decls[i]
		if !strings.EqualFold(d.Name, name) || (f.Kind != "" && d.Kind != f.Kind) {
			continue
		}
		if d.Line+1 == f.Line {
			target = d
			break
		}
		if target == nil {
			target = d
		}
	}
	if target == nil || ls.Documented(target.Line, target.Kind) {
		return types.Edit{}, false
	}
	anchor := ls.DocAnchor(target.Line)
	indent := ls.Indent(target.Line)
	term := ls.Terminator(anchor)
	stub := indent + "/// <summary>" + term +
		indent + "/// " + target.Name + "." + term +
		indent + "/// </summary>" + term
	at := types.Position{Line: anchor}
	return types.Edit{Range: types.Range{Start: at, End: at}, NewText: stub}, true
}

// moveBrace splits the flagged line (1-based hint) or, without a usable
// hint, the first line with a same-line brace.
func moveBrace(ls alsyntax.Lines, hint int) (types.Edit, bool) {
	n := -1
	if hint > 0 && hint <= len(ls) && alsyntax.BraceOnSameLine(ls[hint-1].Text) >= 0 {
		n = hint - 1
	} else {
		for i, l := range ls {
			if alsyntax.BraceOnSameLine(l.Text) >= 0 {
				n = i
				break
			}
		}
	}
	if n < 0 {
		return types.Edit{}, false
	}
	line := ls[n].Text
	idx := alsyntax.BraceOnSameLine(line)
	head := strings.TrimRight(line[:idx], " \t")
	repl := head + ls.Terminator(n) + ls.Indent(n) + line[idx:]
	return types.Edit{
		Range: types.Range{
			Start: types.Position{Line: n},
			End:   types.Position{Line: n, Column: alsyntax.Units(line)},
		},
		NewText: repl,
	}, true
}
