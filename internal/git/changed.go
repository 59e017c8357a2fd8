// Package git answers repository questions for scans using go-git, so no git
// binary is needed.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when root is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

func open(root string) (*git.Repository, string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotRepository, root)
		}
		return nil, "", fmt.Errorf("open repository: %w", err)
	}
	return repo, abs, nil
}

// ChangedFiles lists files under root that are modified, added, renamed or
// untracked in the worktree or index, relative to root with forward
// slashes and sorted. Deleted files are left out since there is nothing to
// scan.
func ChangedFiles(root string) ([]string, error) {
	repo, abs, err := open(root)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	wtRoot := wt.Filesystem.Root()
	var out []string
	for p, s := range status {
		if s.Worktree == git.Deleted || (s.Staging == git.Deleted && s.Worktree == git.Unmodified) {
			continue
		}
		if s.Worktree == git.Unmodified && s.Staging == git.Unmodified {
			continue
		}
		rel, err := filepath.Rel(abs, filepath.Join(wtRoot, filepath.FromSlash(p)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out, nil
}

// Metadata identifies the checked-out revision.
type Metadata struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
}

// RepoMetadata returns branch and commit best-effort; a root outside a
// repository or without commits yields an empty Metadata.
func RepoMetadata(root string) Metadata {
	repo, _, err := open(root)
	if err != nil {
		return Metadata{}
	}
	head, err := repo.Head()
	if err != nil {
		return Metadata{}
	}
	md := Metadata{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		md.Branch = head.Name().Short()
	}
	return md
}
