package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyinlola/heft/pkg/ai/prompts"
	"github.com/toyinlola/heft/pkg/interfaces"
)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func sampleProvider() *mockProvider {
	return &mockProvider{
		files: []string{"package.json", "src/index.js", "src/render.js", "Dockerfile", ".github/workflows/ci.yml"},
		manifest: interfaces.FileContent{OK: true, Content: `{
			"dependencies": {"puppeteer": "^21", "express": "^4"},
			"devDependencies": {"jest": "^29"}
		}`},
		sizeMB: 3.5,
		commits: []interfaces.Commit{
			{SHA: "1234567890", Message: "add pdf export", Date: fixedNow.Add(-time.Hour)},
		},
	}
}

func TestCollector_Collect(t *testing.T) {
	p := sampleProvider()
	snap, err := NewCollector(p, 0).Collect(context.Background(), "acme", "app", "main")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"files", "content", "size", "commits"}, p.calls)
	assert.Equal(t, "main", p.gotRef)
	assert.Equal(t, "main", p.gotCommitRef)
	assert.Equal(t, "package.json", p.gotPath)
	assert.Equal(t, DefaultCommitLimit, p.gotLim)
	assert.Len(t, snap.Files, 5)
	assert.True(t, snap.Manifest.OK)
	assert.Equal(t, 3.5, snap.SizeMB)
	assert.Len(t, snap.Commits, 1)
}

func TestCollector_SoftFailures(t *testing.T) {
	p := sampleProvider()
	p.sizeErr = errors.New("size down")
	p.commErr = errors.New("commits down")

	snap, err := NewCollector(p, 3).Collect(context.Background(), "acme", "app", "")
	require.NoError(t, err)
	assert.Zero(t, snap.SizeMB)
	assert.Nil(t, snap.Commits)
	assert.Equal(t, 3, p.gotLim)
}

func TestCollector_ListFailureAborts(t *testing.T) {
	p := sampleProvider()
	p.filesErr = errors.New("not found")

	_, err := NewCollector(p, 0).Collect(context.Background(), "acme", "app", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report: collecting acme/app: not found")
}

func TestResolveServerSpecs(t *testing.T) {
	got, err := ResolveServerSpecs(nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ServerSpecs{CPUCores: 2, RAMGB: 4}, got)

	got, err = ResolveServerSpecs(&interfaces.ServerSpecs{CPUCores: 8})
	require.NoError(t, err)
	assert.Equal(t, interfaces.ServerSpecs{CPUCores: 8, RAMGB: 4}, got)

	_, err = ResolveServerSpecs(&interfaces.ServerSpecs{CPUCores: -1, RAMGB: 4})
	assert.ErrorIs(t, err, ErrInvalidServerSpecs)
}

func TestGenerator_DeterministicReport(t *testing.T) {
	g := NewGenerator(NewCollector(sampleProvider(), 0), WithClock(func() time.Time { return fixedNow }))

	rpt, err := g.Generate(context.Background(), Request{Owner: "acme", Repo: "app"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rpt.ID, "rpt-"))
	assert.Equal(t, fixedNow, rpt.Timestamp)
	assert.Equal(t, interfaces.DefaultServerSpecs(), rpt.ServerSpecs)
	assert.False(t, rpt.Narrated)

	score := rpt.Score.Report
	assert.Equal(t, interfaces.ParseOK, rpt.Score.Status)
	assert.Equal(t, []string{"puppeteer", "express", "jest"}, score.HeavyPackages)
	assert.Equal(t, 13, score.TotalWeight)
	assert.Equal(t, interfaces.RiskMedium, score.RiskLevel)

	meta := rpt.Metadata
	assert.Equal(t, 5, meta.TotalFiles)
	assert.Equal(t, 3.5, meta.SizeMB)
	assert.True(t, meta.Infrastructure.HasDockerfile)
	assert.True(t, meta.Infrastructure.HasCIWorkflows)
	assert.Equal(t, 1, meta.RecentCommits)

	for _, s := range prompts.ReportSections {
		assert.Contains(t, rpt.Markdown, "## "+s)
	}
	assert.Contains(t, rpt.Markdown, "# Heaviness Report: acme/app")
	assert.Contains(t, rpt.Markdown, "| Browser Automation | 8 |")
	assert.Contains(t, rpt.Markdown, "Detected: Dockerfile, CI workflows.")
	assert.Contains(t, rpt.Markdown, "`1234567` add pdf export")
	assert.Contains(t, rpt.Markdown, prompts.Disclaimer)
}

func TestGenerator_MissingManifestIsSoftFailure(t *testing.T) {
	p := sampleProvider()
	p.manifest = interfaces.FileContent{}

	rpt, err := NewGenerator(NewCollector(p, 0)).Generate(context.Background(), Request{Owner: "acme", Repo: "app"})
	require.NoError(t, err)

	assert.Equal(t, interfaces.ParseFailed, rpt.Score.Status)
	assert.Equal(t, interfaces.RiskLow, rpt.Score.Report.RiskLevel)
	assert.Empty(t, rpt.Score.Report.HeavyPackages)
	assert.False(t, rpt.Metadata.HasManifest)
	assert.Contains(t, rpt.Markdown, "No readable package.json")
}

func TestGenerator_Narrated(t *testing.T) {
	n := &mockNarrator{body: "# Heaviness Report: acme/app\n\n## Summary\nIt is medium."}
	specs := &interfaces.ServerSpecs{CPUCores: 4, RAMGB: 16}

	rpt, err := NewGenerator(NewCollector(sampleProvider(), 0), WithNarrator(n)).
		Generate(context.Background(), Request{Owner: "acme", Repo: "app", ServerSpecs: specs})
	require.NoError(t, err)

	assert.True(t, rpt.Narrated)
	assert.Equal(t, n.body, rpt.Markdown)
	assert.Equal(t, prompts.ReportSystemPrompt(), n.gotSystem)
	assert.Contains(t, n.gotPrompt, "Target server: 4 CPU cores, 16 GB RAM")
	assert.Contains(t, n.gotPrompt, "- Risk level: MEDIUM")
	assert.Contains(t, n.gotPrompt, "- Heavy packages: puppeteer, express, jest")
}

func TestGenerator_NarratorFailure(t *testing.T) {
	n := &mockNarrator{err: errors.New("model offline")}

	rpt, err := NewGenerator(NewCollector(sampleProvider(), 0), WithNarrator(n)).
		Generate(context.Background(), Request{Owner: "acme", Repo: "app"})
	require.NoError(t, err)
	assert.False(t, rpt.Narrated)
	assert.Contains(t, rpt.Markdown, "## Summary")

	_, err = NewGenerator(NewCollector(sampleProvider(), 0), WithNarrator(n), WithFallback(false)).
		Generate(context.Background(), Request{Owner: "acme", Repo: "app"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestGenerator_InvalidRequests(t *testing.T) {
	g := NewGenerator(NewCollector(sampleProvider(), 0))

	_, err := g.Generate(context.Background(), Request{Owner: "acme"})
	assert.Error(t, err)

	_, err = g.Generate(context.Background(), Request{Owner: "acme", Repo: "app", ServerSpecs: &interfaces.ServerSpecs{RAMGB: -4}})
	assert.ErrorIs(t, err, ErrInvalidServerSpecs)
}

func TestAssessFit(t *testing.T) {
	defaults := interfaces.DefaultServerSpecs()

	tests := []struct {
		level interfaces.RiskLevel
		specs interfaces.ServerSpecs
		want  string
	}{
		{interfaces.RiskLow, defaults, FitComfortable},
		{interfaces.RiskHigh, defaults, FitComfortable},
		{interfaces.RiskCritical, defaults, FitTight},
		{interfaces.RiskCritical, interfaces.ServerSpecs{CPUCores: 1, RAMGB: 1}, FitInsufficient},
		{interfaces.RiskCritical, interfaces.ServerSpecs{CPUCores: 4, RAMGB: 8}, FitComfortable},
	}

	for _, tt := range tests {
		fit := AssessFit(interfaces.ScoreReport{RiskLevel: tt.level}, tt.specs)
		assert.Equal(t, tt.want, fit.Verdict, "%s on %+v", tt.level, tt.specs)
		assert.NotEmpty(t, fit.Recommendations)
	}
}

func TestAssessFit_CapabilityRecommendations(t *testing.T) {
	fit := AssessFit(interfaces.ScoreReport{
		RiskLevel: interfaces.RiskHigh,
		Analysis:  interfaces.Capabilities{HasAI: true, HasVideoProcessing: true},
	}, interfaces.DefaultServerSpecs())

	assert.Len(t, fit.Recommendations, 2)
	assert.Contains(t, fit.Recommendations[0], "ML inference")
}
