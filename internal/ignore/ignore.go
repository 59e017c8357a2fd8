// Package ignore reads .alguardignore files: one glob per line, '#' starts a
// comment, a trailing '/' names a directory.
package ignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up at the scan root.
const FileName = ".alguardignore"

// Matcher reports whether a root-relative path is ignored.
type Matcher struct {
	patterns []string
}

// Load reads patterns from p. A missing file yields an empty matcher and a
// nil error.
func Load(p string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return m, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, filepath.ToSlash(line))
	}
	return m, sc.Err()
}

// Match tests rel (slash or OS separated) against every pattern. A pattern
// without a slash also matches the base name; a directory pattern matches
// everything below it at any depth.
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range m.patterns {
		if dir, ok := strings.CutSuffix(p, "/"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") || strings.Contains(rel, "/"+dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}

// Empty reports whether the matcher has no patterns.
func (m Matcher) Empty() bool { return len(m.patterns) == 0 }

// Append adds pattern to the ignore file under root unless it is already
// listed. The file is created when missing.
func Append(root, pattern string) error {
	p := filepath.Join(root, FileName)
	existing := map[string]bool{}
	var last byte = '\n'
	if b, err := os.ReadFile(p); err == nil {
		for _, line := range strings.Split(string(b), "\n") {
			existing[strings.TrimSpace(line)] = true
		}
		if len(b) > 0 {
			last = b[len(b)-1]
		}
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if last != '\n' {
		pattern = "\n" + pattern
	}
	_, err = f.WriteString(pattern + "\n")
	return err
}
