package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// LineStats summarizes the diff a commit introduced against its first
// parent (or against the empty tree for a root commit).
type LineStats struct {
	Insertions   int
	Deletions    int
	FilesChanged int
}

// Stats computes the line statistics for the commit. Merge commits are
// measured against the first parent only, matching git log --stat.
func (c *Commit) Stats() (LineStats, error) {
	newTree, err := c.tree()
	if err != nil {
		return LineStats{}, err
	}
	defer newTree.Free()

	var oldTree *git2go.Tree

	if c.NumParents() > 0 {
		parent, parentErr := c.Parent(0)
		if parentErr != nil {
			return LineStats{}, parentErr
		}
		defer parent.Free()

		oldTree, err = parent.tree()
		if err != nil {
			return LineStats{}, err
		}
		defer oldTree.Free()
	}

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return LineStats{}, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := c.repo.repo.DiffTreeToTree(oldTree, newTree, &opts)
	if err != nil {
		return LineStats{}, fmt.Errorf("diff trees: %w", err)
	}

	defer func() {
		_ = diff.Free()
	}()

	stats, err := diff.Stats()
	if err != nil {
		return LineStats{}, fmt.Errorf("get diff stats: %w", err)
	}

	result := LineStats{
		Insertions:   stats.Insertions(),
		Deletions:    stats.Deletions(),
		FilesChanged: stats.FilesChanged(),
	}

	_ = stats.Free()

	return result, nil
}
