package report

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/toyinlola/heft/pkg/analyzer"
	"github.com/toyinlola/heft/pkg/interfaces"
)

// DefaultCommitLimit is how many recent commits a snapshot carries.
const DefaultCommitLimit = 10

// Collector gathers a repository snapshot from its collaborators.
type Collector struct {
	provider    interfaces.RepositoryProvider
	commitLimit int
}

// NewCollector creates a collector. A non-positive commitLimit uses DefaultCommitLimit.
func NewCollector(provider interfaces.RepositoryProvider, commitLimit int) *Collector {
	if commitLimit <= 0 {
		commitLimit = DefaultCommitLimit
	}
	return &Collector{provider: provider, commitLimit: commitLimit}
}

// Collect fetches the file list, manifest, size and recent commits in parallel.
// Only a failed file listing aborts the collection; size and commit failures
// are logged and leave their fields empty.
func (c *Collector) Collect(ctx context.Context, owner, repo, ref string) (*interfaces.Snapshot, error) {
	snap := &interfaces.Snapshot{Owner: owner, Repo: repo, Ref: ref}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		files, err := c.provider.ListFiles(gctx, owner, repo, ref)
		if err != nil {
			return err
		}
		snap.Files = files
		return nil
	})

	g.Go(func() error {
		snap.Manifest = c.provider.GetFile(gctx, owner, repo, analyzer.ManifestPath, ref)
		return nil
	})

	g.Go(func() error {
		size, err := c.provider.RepoSizeMB(gctx, owner, repo)
		if err != nil {
			slog.Warn("repository size unavailable", "repo", owner+"/"+repo, "error", err)
			return nil
		}
		snap.SizeMB = size
		return nil
	})

	g.Go(func() error {
		commits, err := c.provider.RecentCommits(gctx, owner, repo, ref, c.commitLimit)
		if err != nil {
			slog.Warn("commit history unavailable", "repo", owner+"/"+repo, "error", err)
			return nil
		}
		snap.Commits = commits
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report: collecting %s/%s: %w", owner, repo, err)
	}

	slog.Debug("snapshot collected",
		"repo", owner+"/"+repo,
		"files", len(snap.Files),
		"manifest", snap.Manifest.OK,
		"size_mb", snap.SizeMB,
		"commits", len(snap.Commits),
	)
	return snap, nil
}
