package analyzer

import (
	"context"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// ActivityAnalyzer summarizes recent commit history.
type ActivityAnalyzer struct{}

// NewActivityAnalyzer creates a commit activity analyzer.
func NewActivityAnalyzer() *ActivityAnalyzer {
	return &ActivityAnalyzer{}
}

// Name returns the analyzer identifier.
func (a *ActivityAnalyzer) Name() string {
	return "activity"
}

// Analyze counts recent commits and picks the newest one.
func (a *ActivityAnalyzer) Analyze(_ context.Context, snap *interfaces.Snapshot) (*interfaces.AnalysisResult, error) {
	meta := map[string]any{KeyRecentCommits: len(snap.Commits)}

	var last *interfaces.Commit
	for i := range snap.Commits {
		c := snap.Commits[i]
		if last == nil || c.Date.After(last.Date) {
			last = &c
		}
	}
	if last != nil {
		meta[KeyLastCommit] = *last
	}

	return &interfaces.AnalysisResult{AnalyzerName: a.Name(), Metadata: meta}, nil
}
