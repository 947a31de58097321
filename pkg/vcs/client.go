package vcs

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns an HTTP client that authenticates with token.
// An empty token yields the default client for anonymous access.
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return http.DefaultClient
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "token",
			AccessToken: token,
		},
	)
	return oauth2.NewClient(ctx, ts)
}
