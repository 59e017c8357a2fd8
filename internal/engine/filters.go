package engine

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects every AL source file at any depth, dotfiles and
// dot-directories included.
const DefaultInclude = "**/*.al"

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git": true,
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs, if provided, act as a positive filter and
// default to DefaultInclude. Exclude globs are subtracted last. Matching uses
// forward-slash semantics.
func allowedByGlobs(relPath string, includes, excludes []string) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	if len(includes) == 0 {
		includes = []string{DefaultInclude}
	}
	if !matchAnyGlob(rp, expandGlobs(includes)) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, expandGlobs(excludes)) {
		return false
	}
	return true
}

// ParseGlobsList splits a comma separated flag value into globs.
func ParseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandGlobs(globs []string) []string {
	out := make([]string, 0, len(globs)*2)
	for _, g := range globs {
		out = append(out, g)
		if t := trimGlobPrefix(g); t != g {
			out = append(out, t)
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if !strings.Contains(g, "/") {
			if ok, _ := doublestar.Match(g, path.Base(pathToMatch)); ok {
				return true
			}
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// ValidGlobs reports the first malformed pattern, if any.
func ValidGlobs(globs []string) (string, bool) {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return g, false
		}
	}
	return "", true
}
