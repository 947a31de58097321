package vcs

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/go-github/v83/github"
)

const rateLimitThreshold = 10

// maxRateLimitWait caps how long a single call blocks on an exhausted quota.
const maxRateLimitWait = 2 * time.Minute

// checkRateLimit pauses when the remaining quota is nearly spent, until the
// window resets or ctx is done.
func checkRateLimit(ctx context.Context, resp *github.Response) {
	if resp == nil {
		return
	}

	if resp.Rate.Remaining > rateLimitThreshold {
		return
	}

	resetAt := resp.Rate.Reset.Time
	wait := time.Until(resetAt)
	if wait <= 0 {
		return
	}

	jitter := time.Duration(rand.IntN(2000)) * time.Millisecond
	total := min(wait+jitter, maxRateLimitWait)

	slog.Info("rate limit approaching, waiting",
		"remaining", resp.Rate.Remaining,
		"reset_at", resetAt.Format(time.RFC3339),
		"wait", total.String(),
	)

	t := time.NewTimer(total)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
