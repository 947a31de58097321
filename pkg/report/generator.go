// Package report composes repository heaviness reports and renders them.
package report

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/toyinlola/heft/pkg/ai"
	"github.com/toyinlola/heft/pkg/ai/prompts"
	"github.com/toyinlola/heft/pkg/analyzer"
	"github.com/toyinlola/heft/pkg/interfaces"
	"github.com/toyinlola/heft/pkg/scorer"
)

// ErrInvalidServerSpecs is returned when a server capacity value is below one.
var ErrInvalidServerSpecs = errors.New("report: server specs must be at least 1")

// Request identifies the repository to report on.
type Request struct {
	Owner string
	Repo  string
	Ref   string

	// ServerSpecs is the target server. Nil uses the 2 core / 4 GB default.
	ServerSpecs *interfaces.ServerSpecs
}

// Generator builds reports from collected repository data.
type Generator struct {
	collector     *Collector
	registry      *analyzer.Registry
	calc          *scorer.Calculator
	narrator      interfaces.Narrator
	fallback      bool
	contextBudget int
	topFileTypes  int
	now           func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithNarrator sets the narrator used for the markdown body.
// Without one every report is rendered from the deterministic template.
func WithNarrator(n interfaces.Narrator) Option {
	return func(g *Generator) {
		g.narrator = n
	}
}

// WithFallback controls whether a narrator failure falls back to the
// deterministic template instead of failing the report.
func WithFallback(enabled bool) Option {
	return func(g *Generator) {
		g.fallback = enabled
	}
}

// WithContextBudget sets the token budget of the narrator prompt context.
func WithContextBudget(tokens int) Option {
	return func(g *Generator) {
		g.contextBudget = tokens
	}
}

// WithTopFileTypes limits the file-type histogram length.
func WithTopFileTypes(n int) Option {
	return func(g *Generator) {
		g.topFileTypes = n
	}
}

// WithCalculator replaces the dependency scorer.
func WithCalculator(c *scorer.Calculator) Option {
	return func(g *Generator) {
		g.calc = c
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a report generator.
func NewGenerator(collector *Collector, opts ...Option) *Generator {
	g := &Generator{
		collector:     collector,
		calc:          scorer.NewCalculator(),
		fallback:      true,
		contextBudget: ai.DefaultMaxTokenBudget,
		topFileTypes:  10,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.registry = analyzer.DefaultRegistry(g.calc, g.topFileTypes)
	return g
}

// ResolveServerSpecs fills zero fields with defaults and rejects negative values.
func ResolveServerSpecs(s *interfaces.ServerSpecs) (interfaces.ServerSpecs, error) {
	out := interfaces.DefaultServerSpecs()
	if s == nil {
		return out, nil
	}

	if s.CPUCores < 0 || s.RAMGB < 0 {
		return out, fmt.Errorf("%w: got %d CPU cores, %d GB RAM", ErrInvalidServerSpecs, s.CPUCores, s.RAMGB)
	}
	if s.CPUCores > 0 {
		out.CPUCores = s.CPUCores
	}
	if s.RAMGB > 0 {
		out.RAMGB = s.RAMGB
	}
	return out, nil
}

// Generate collects the repository, scores it and renders the markdown report.
func (g *Generator) Generate(ctx context.Context, req Request) (*interfaces.Report, error) {
	start := time.Now()

	if req.Owner == "" || req.Repo == "" {
		return nil, fmt.Errorf("report: owner and repo are required")
	}
	specs, err := ResolveServerSpecs(req.ServerSpecs)
	if err != nil {
		return nil, err
	}

	snap, err := g.collector.Collect(ctx, req.Owner, req.Repo, req.Ref)
	if err != nil {
		return nil, err
	}

	results, err := analyzer.NewEngine(g.registry).Run(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("report: analyzing %s/%s: %w", req.Owner, req.Repo, err)
	}

	meta, score := analyzer.Summarize(snap, results)
	if score == nil {
		text := ""
		if snap.Manifest.OK {
			text = snap.Manifest.Content
		}
		score = g.calc.Analyze(text)
	}

	rpt := &interfaces.Report{
		ID:          generateID(),
		Owner:       req.Owner,
		Repo:        req.Repo,
		Ref:         req.Ref,
		Timestamp:   g.now(),
		ServerSpecs: specs,
		Score:       *score,
		Metadata:    meta,
	}

	input := ai.ReportInput{
		Owner:    req.Owner,
		Repo:     req.Repo,
		Specs:    specs,
		Score:    score,
		Metadata: meta,
		Commits:  snap.Commits,
	}

	if err := g.render(ctx, rpt, input); err != nil {
		return nil, err
	}

	rpt.Duration = time.Since(start)
	slog.Info("report generated",
		"repo", req.Owner+"/"+req.Repo,
		"risk", score.Report.RiskLevel,
		"weight", score.Report.TotalWeight,
		"narrated", rpt.Narrated,
		"duration", rpt.Duration,
	)
	return rpt, nil
}

// render fills rpt.Markdown from the narrator, or from the template when no
// narrator is set or it fails with fallback enabled.
func (g *Generator) render(ctx context.Context, rpt *interfaces.Report, input ai.ReportInput) error {
	if g.narrator != nil {
		system := prompts.ReportSystemPrompt()
		prompt := prompts.ReportPrompt(input.Owner, input.Repo, ai.BuildContext(input, g.contextBudget))

		body, err := g.narrator.Narrate(ctx, system, prompt)
		if err == nil {
			rpt.Markdown = body
			rpt.Narrated = true
			return nil
		}
		if !g.fallback {
			return fmt.Errorf("report: narrating %s/%s: %w", input.Owner, input.Repo, err)
		}
		slog.Warn("narration failed, using deterministic report", "error", err)
	}

	body, err := RenderMarkdown(rpt, input.Commits)
	if err != nil {
		return fmt.Errorf("report: rendering markdown: %w", err)
	}
	rpt.Markdown = body
	return nil
}

// generateID creates a unique report identifier.
func generateID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("rpt-%x", b)
}
