package interfaces

import "context"

// FileLister lists repository-relative file paths at a ref.
// An empty ref means the repository default branch.
type FileLister interface {
	ListFiles(ctx context.Context, owner, repo, ref string) ([]string, error)
}

// ContentFetcher retrieves a single file at ref. It never fails: missing or
// undecodable files come back with OK set to false.
type ContentFetcher interface {
	GetFile(ctx context.Context, owner, repo, path, ref string) FileContent
}

// SizeFetcher reports the repository size in MB, rounded to two decimals.
type SizeFetcher interface {
	RepoSizeMB(ctx context.Context, owner, repo string) (float64, error)
}

// CommitFetcher returns up to limit of the most recent commits reachable from ref.
// An empty ref means the default branch.
type CommitFetcher interface {
	RecentCommits(ctx context.Context, owner, repo, ref string, limit int) ([]Commit, error)
}

// RepositoryProvider bundles every repository collaborator the report generator consumes.
type RepositoryProvider interface {
	FileLister
	ContentFetcher
	SizeFetcher
	CommitFetcher
}

// Narrator turns a prompt into free-form report text.
// Its output is not reproducible and carries no schema.
type Narrator interface {
	Narrate(ctx context.Context, system, prompt string) (string, error)
}
