package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v83/github"
	"github.com/toyinlola/heft/pkg/interfaces"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com/"

// GitHubProvider implements interfaces.RepositoryProvider for GitHub and GitHub Enterprise.
type GitHubProvider struct {
	client *github.Client
}

// NewGitHubProvider creates a GitHub repository provider.
// An empty token gives anonymous access with the lower rate limit.
// If baseURL is empty, it defaults to https://api.github.com.
func NewGitHubProvider(ctx context.Context, token, baseURL string) (*GitHubProvider, error) {
	client := github.NewClient(NewHTTPClient(ctx, token))

	if baseURL != "" && strings.TrimRight(baseURL, "/")+"/" != DefaultBaseURL {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("vcs: parsing base URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}

	return &GitHubProvider{client: client}, nil
}

// ListFiles returns every blob path in the repository tree at ref.
func (g *GitHubProvider) ListFiles(ctx context.Context, owner, repo, ref string) ([]string, error) {
	if ref == "" {
		ref = "HEAD"
	}

	tree, resp, err := g.client.Git.GetTree(ctx, owner, repo, ref, true)
	checkRateLimit(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("vcs: listing files of %s/%s@%s: %w", owner, repo, ref, err)
	}

	if tree.GetTruncated() {
		slog.Warn("repository tree truncated, file list is partial",
			"owner", owner, "repo", repo, "entries", len(tree.Entries))
	}

	files := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e.GetType() != "blob" {
			continue
		}
		files = append(files, e.GetPath())
	}
	return files, nil
}

// GetFile fetches and decodes a single file. Any failure yields OK=false.
func (g *GitHubProvider) GetFile(ctx context.Context, owner, repo, path, ref string) interfaces.FileContent {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	checkRateLimit(ctx, resp)
	if err != nil {
		slog.Debug("file fetch failed", "owner", owner, "repo", repo, "path", path, "error", err)
		return interfaces.FileContent{}
	}
	if file == nil {
		slog.Debug("path is not a file", "owner", owner, "repo", repo, "path", path)
		return interfaces.FileContent{}
	}

	content, err := file.GetContent()
	if err != nil {
		slog.Debug("file decode failed", "path", path, "error", err)
		return interfaces.FileContent{}
	}
	return interfaces.FileContent{OK: true, Content: content}
}

// RepoSizeMB returns the repository size reported by GitHub, in MB.
func (g *GitHubProvider) RepoSizeMB(ctx context.Context, owner, repo string) (float64, error) {
	r, resp, err := g.client.Repositories.Get(ctx, owner, repo)
	checkRateLimit(ctx, resp)
	if err != nil {
		return 0, fmt.Errorf("vcs: getting repository %s/%s: %w", owner, repo, err)
	}
	return KBToMB(r.GetSize()), nil
}

// RecentCommits returns up to limit commits reachable from ref, newest first.
// An empty ref lists the default branch.
func (g *GitHubProvider) RecentCommits(ctx context.Context, owner, repo, ref string, limit int) ([]interfaces.Commit, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := &github.CommitsListOptions{
		SHA:         ref,
		ListOptions: github.ListOptions{PerPage: min(limit, 100)},
	}

	items, resp, err := g.client.Repositories.ListCommits(ctx, owner, repo, opts)
	checkRateLimit(ctx, resp)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			// empty repository
			return nil, nil
		}
		return nil, fmt.Errorf("vcs: listing commits of %s/%s: %w", owner, repo, err)
	}

	commits := make([]interfaces.Commit, 0, min(len(items), limit))
	for _, c := range items {
		if len(commits) == limit {
			break
		}
		commits = append(commits, toCommit(c))
	}
	return commits, nil
}

// PostComment adds a comment to an issue or pull request.
func (g *GitHubProvider) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}

	_, resp, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	checkRateLimit(ctx, resp)
	if err != nil {
		return fmt.Errorf("vcs: commenting on %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

func toCommit(c *github.RepositoryCommit) interfaces.Commit {
	out := interfaces.Commit{SHA: c.GetSHA()}

	if rc := c.GetCommit(); rc != nil {
		msg, _, _ := strings.Cut(rc.GetMessage(), "\n")
		out.Message = msg
		if a := rc.GetAuthor(); a != nil {
			out.Author = a.GetName()
			out.Date = a.GetDate().Time
		}
	}
	if out.Author == "" {
		out.Author = c.GetAuthor().GetLogin()
	}
	return out
}

// KBToMB converts the KB size GitHub reports into MB rounded to two decimals.
func KBToMB(kb int) float64 {
	return math.Round(float64(kb)/1024*100) / 100
}
