package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toyinlola/heft/pkg/interfaces"
)

var errNoResult = errors.New("no result")

// Engine runs the enabled analyzers of a registry concurrently.
type Engine struct {
	registry *Registry
}

// NewEngine creates an analysis engine backed by the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Run analyzes snap with every enabled analyzer. Results come back in
// registration order. An analyzer error is recorded on its result and
// does not stop the rest; analyzers not started before ctx is done are
// left out and ctx.Err is returned.
func (e *Engine) Run(ctx context.Context, snap *interfaces.Snapshot) ([]*interfaces.AnalysisResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("analyzer: snapshot must not be nil")
	}

	analyzers := e.registry.EnabledAnalyzers()
	if len(analyzers) == 0 {
		return nil, nil
	}
	slog.Debug("running analyzers", "count", len(analyzers), "repo", snap.Owner+"/"+snap.Repo)

	slots := make([]*interfaces.AnalysisResult, len(analyzers))
	var g errgroup.Group
	for i, a := range analyzers {
		g.Go(func() error {
			if ctx.Err() == nil {
				slots[i] = runOne(ctx, a, snap)
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]*interfaces.AnalysisResult, 0, len(slots))
	for _, res := range slots {
		if res != nil {
			results = append(results, res)
		}
	}

	if err := ctx.Err(); err != nil {
		slog.Warn("analysis cancelled", "error", err)
		return results, err
	}
	return results, nil
}

func runOne(ctx context.Context, a Analyzer, snap *interfaces.Snapshot) *interfaces.AnalysisResult {
	name := a.Name()
	start := time.Now()

	res, err := a.Analyze(ctx, snap)
	if err == nil && res == nil {
		err = errNoResult
	}
	if err != nil {
		slog.Error("analyzer failed", "name", name, "error", err)
		res = &interfaces.AnalysisResult{AnalyzerName: name, Error: fmt.Errorf("analyzer %s: %w", name, err)}
	}
	res.Duration = time.Since(start)
	return res
}
