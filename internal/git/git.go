// Package git reports uncommitted work in the repository that contains a
// workspace, so a rename can warn before it rewrites files.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when the workspace is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

type ChangedFile struct {
	Path     string
	Staging  string
	Worktree string
}

// Repo is the git worktree enclosing a workspace root.
type Repo struct {
	root     string
	worktree *gogit.Worktree
	top      string
}

// Open finds the repository containing root, searching parent directories.
func Open(root string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("git open failed: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git worktree failed: %w", err)
	}

	return &Repo{
		root:     realPath(root),
		worktree: wt,
		top:      realPath(wt.Filesystem.Root()),
	}, nil
}

// GetChangedFiles returns every file whose staged or worktree state differs
// from HEAD, untracked files included. Paths are relative to the workspace
// root and sorted; files outside the workspace are omitted.
func (r *Repo) GetChangedFiles() ([]ChangedFile, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w", err)
	}

	var changes []ChangedFile
	for path, fs := range status {
		if fs.Staging == gogit.Unmodified && fs.Worktree == gogit.Unmodified {
			continue
		}
		rel, err := filepath.Rel(r.root, filepath.Join(r.top, filepath.FromSlash(path)))
		if err != nil || !filepath.IsLocal(rel) {
			continue
		}
		changes = append(changes, ChangedFile{
			Path:     filepath.ToSlash(rel),
			Staging:  statusName(fs.Staging),
			Worktree: statusName(fs.Worktree),
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// Uncommitted returns the subset of files that carry uncommitted changes, in
// the order given. Relative paths are taken against the workspace root.
func (r *Repo) Uncommitted(files []string) ([]string, error) {
	changes, err := r.GetChangedFiles()
	if err != nil {
		return nil, err
	}

	dirty := make(map[string]bool, len(changes))
	for _, c := range changes {
		dirty[c.Path] = true
	}

	var out []string
	for _, f := range files {
		key := f
		if filepath.IsAbs(key) {
			rel, err := filepath.Rel(r.root, realPath(key))
			if err != nil {
				continue
			}
			key = rel
		}
		if dirty[filepath.ToSlash(filepath.Clean(key))] {
			out = append(out, f)
		}
	}
	return out, nil
}

func statusName(code gogit.StatusCode) string {
	switch code {
	case gogit.Unmodified:
		return "unmodified"
	case gogit.Untracked:
		return "untracked"
	case gogit.Modified:
		return "modified"
	case gogit.Added:
		return "added"
	case gogit.Deleted:
		return "deleted"
	case gogit.Renamed:
		return "renamed"
	case gogit.Copied:
		return "copied"
	default:
		return "updated"
	}
}

func realPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
