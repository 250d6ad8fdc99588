// Package gitlib wraps the libgit2 operations gStats needs to read a
// repository's commit history: opening, walking the log, listing local
// branches, and per-commit diff statistics.
package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// Open opens a git repository at the given path.
func Open(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the HEAD reference target.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// HeadBranch returns the shorthand name of the branch HEAD points at.
func (r *Repository) HeadBranch() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return ref.Shorthand(), nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit: %w", err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// Log returns a commit iterator over the full history from HEAD,
// time-and-topologically sorted.
func (r *Repository) Log() (*CommitIter, error) {
	walk, err := r.walkFrom(Hash{})
	if err != nil {
		return nil, err
	}

	return &CommitIter{walk: walk.walk, repo: r}, nil
}

// Walk creates a revision walker. A zero start hash walks from HEAD.
func (r *Repository) Walk(start Hash) (*RevWalk, error) {
	return r.walkFrom(start)
}

func (r *Repository) walkFrom(start Hash) (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	if start.IsZero() {
		headRef, headErr := r.repo.Head()
		if headErr != nil {
			walk.Free()

			return nil, fmt.Errorf("get HEAD: %w", headErr)
		}

		start = HashFromOid(headRef.Target())
		headRef.Free()
	}

	pushErr := walk.Push(start.ToOid())
	if pushErr != nil {
		walk.Free()

		return nil, fmt.Errorf("push to revwalk: %w", pushErr)
	}

	walk.Sorting(git2go.SortTime | git2go.SortTopological)

	return &RevWalk{walk: walk, repo: r}, nil
}

// IsDirty reports whether the worktree has uncommitted changes, and the
// number of untracked files. Bare repositories report a clean state.
func (r *Repository) IsDirty() (dirty bool, untracked int, err error) {
	if r.repo.IsBare() {
		return false, 0, nil
	}

	opts := git2go.StatusOptions{
		Show:  git2go.StatusShowIndexAndWorkdir,
		Flags: git2go.StatusOptIncludeUntracked,
	}

	list, err := r.repo.StatusList(&opts)
	if err != nil {
		return false, 0, fmt.Errorf("status list: %w", err)
	}
	defer list.Free()

	count, err := list.EntryCount()
	if err != nil {
		return false, 0, fmt.Errorf("status entry count: %w", err)
	}

	for i := 0; i < count; i++ {
		entry, entryErr := list.ByIndex(i)
		if entryErr != nil {
			continue
		}

		if entry.Status&git2go.StatusWtNew != 0 {
			untracked++
		}
	}

	return count > 0, untracked, nil
}
