// Package collect walks a repository's commit history once and produces an
// immutable snapshot of per-commit statistics for aggregation.
package collect

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/miermontoto/gStats/pkg/gitlib"
)

// Record is one commit's contribution to the statistics table.
type Record struct {
	Hash         string
	Author       string
	When         time.Time
	Message      string
	Insertions   int
	Deletions    int
	FilesChanged int
	Branch       string
}

// RepoInfo describes the repository a snapshot was taken from.
type RepoInfo struct {
	Path         string
	ActiveBranch string
	BranchCount  int
	Dirty        bool
	Untracked    int
}

// Snapshot is the immutable result of one history walk. Authors holds the
// unique raw author names in first-seen order; identity resolution depends
// on that order being stable.
type Snapshot struct {
	Records []Record
	Authors []string
	Info    RepoInfo
}

// Collector reads commit statistics from an open repository.
type Collector struct {
	repo *gitlib.Repository
	log  *slog.Logger
}

// New creates a Collector. A nil logger falls back to slog.Default.
func New(repo *gitlib.Repository, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	return &Collector{repo: repo, log: logger}
}

// Collect walks the full history from HEAD and returns a snapshot.
// Commits whose diff cannot be computed are skipped with a warning; the
// walk itself failing is an error.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	branchOf, branches, err := c.labelBranches()
	if err != nil {
		return nil, err
	}

	iter, err := c.repo.Log()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var records []Record

	walkErr := iter.ForEach(func(commit *gitlib.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		hash := commit.Hash().String()

		stats, statsErr := commit.Stats()
		if statsErr != nil {
			c.log.Warn("skipping commit", "hash", hash, "error", statsErr)

			return nil
		}

		author := commit.Author()
		records = append(records, Record{
			Hash:         hash,
			Author:       author.Name,
			When:         author.When.UTC(),
			Message:      strings.TrimSpace(commit.Message()),
			Insertions:   stats.Insertions,
			Deletions:    stats.Deletions,
			FilesChanged: stats.FilesChanged,
			Branch:       branchLabel(branchOf, hash),
		})

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	info, err := c.repoInfo(len(branches))
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Records: records,
		Authors: UniqueAuthors(records),
		Info:    info,
	}, nil
}

// detachedLabel names commits reachable from HEAD but from no local
// branch, as happens on a detached HEAD.
const detachedLabel = "HEAD"

// branchLabel returns the branch credited with hash, falling back to
// detachedLabel when no branch walk reached it.
func branchLabel(branchOf map[string]string, hash string) string {
	if name, ok := branchOf[hash]; ok && name != "" {
		return name
	}

	return detachedLabel
}

// labelBranches assigns each reachable commit the first branch whose walk
// reaches it. The HEAD branch walks first, so shared history is credited
// to the active branch, then to the remaining local branches in order.
func (c *Collector) labelBranches() (map[string]string, []gitlib.Branch, error) {
	branches, err := c.repo.Branches()
	if err != nil {
		return nil, nil, err
	}

	branchOf := make(map[string]string)

	for _, branch := range branches {
		walk, walkErr := c.repo.Walk(branch.Tip)
		if walkErr != nil {
			c.log.Warn("skipping branch walk", "branch", branch.Name, "error", walkErr)

			continue
		}

		iterErr := walk.IterateHashes(func(hash gitlib.Hash) bool {
			key := hash.String()
			if _, seen := branchOf[key]; !seen {
				branchOf[key] = branch.Name
			}

			return true
		})

		walk.Free()

		if iterErr != nil {
			c.log.Warn("branch walk failed", "branch", branch.Name, "error", iterErr)
		}
	}

	return branchOf, branches, nil
}

func (c *Collector) repoInfo(branchCount int) (RepoInfo, error) {
	activeBranch, err := c.repo.HeadBranch()
	if err != nil {
		activeBranch = ""
	}

	dirty, untracked, err := c.repo.IsDirty()
	if err != nil {
		c.log.Warn("worktree status unavailable", "error", err)

		dirty, untracked = false, 0
	}

	return RepoInfo{
		Path:         c.repo.Path(),
		ActiveBranch: activeBranch,
		BranchCount:  branchCount,
		Dirty:        dirty,
		Untracked:    untracked,
	}, nil
}

// UniqueAuthors returns the distinct raw author names of records in
// first-seen order.
func UniqueAuthors(records []Record) []string {
	seen := make(map[string]bool, len(records))

	var authors []string

	for _, rec := range records {
		if !seen[rec.Author] {
			seen[rec.Author] = true

			authors = append(authors, rec.Author)
		}
	}

	return authors
}
