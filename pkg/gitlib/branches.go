package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Branch is a local branch name with its tip commit.
type Branch struct {
	Name string
	Tip  Hash
}

// Branches lists the repository's local branches. The branch HEAD points
// at, if any, is first; the rest follow in iteration order.
func (r *Repository) Branches() ([]Branch, error) {
	iter, err := r.repo.NewBranchIterator(git2go.BranchLocal)
	if err != nil {
		return nil, fmt.Errorf("branch iterator: %w", err)
	}
	defer iter.Free()

	headName, headErr := r.HeadBranch()
	if headErr != nil {
		// Detached or unborn HEAD; branches are still listable.
		headName = ""
	}

	var (
		head   *Branch
		others []Branch
	)

	for {
		branch, _, nextErr := iter.Next()
		if nextErr != nil {
			if git2go.IsErrorCode(nextErr, git2go.ErrorCodeIterOver) {
				break
			}

			return nil, fmt.Errorf("iterate branches: %w", nextErr)
		}

		name, nameErr := branch.Name()
		if nameErr != nil {
			branch.Free()

			continue
		}

		target := branch.Target()
		branch.Free()

		if target == nil {
			continue
		}

		b := Branch{Name: name, Tip: HashFromOid(target)}
		if name == headName {
			head = &b
		} else {
			others = append(others, b)
		}
	}

	if head == nil {
		return others, nil
	}

	return append([]Branch{*head}, others...), nil
}

// BranchCount returns the number of local branches.
func (r *Repository) BranchCount() (int, error) {
	branches, err := r.Branches()
	if err != nil {
		return 0, err
	}

	return len(branches), nil
}
