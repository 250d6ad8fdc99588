package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// RevWalk wraps a libgit2 revision walker.
type RevWalk struct {
	walk *git2go.RevWalk
	repo *Repository
}

// IterateHashes calls the callback with each commit hash in the walk.
// Returning false from the callback stops the iteration.
func (w *RevWalk) IterateHashes(cb func(Hash) bool) error {
	err := w.walk.Iterate(func(commit *git2go.Commit) bool {
		hash := HashFromOid(commit.Id())
		commit.Free()

		return cb(hash)
	})
	if err != nil {
		return fmt.Errorf("revwalk iterate: %w", err)
	}

	return nil
}

// Free releases the walker resources.
func (w *RevWalk) Free() {
	if w.walk != nil {
		w.walk.Free()
		w.walk = nil
	}
}
