package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyinlola/heft/pkg/interfaces"
)

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"src/index.JS":          ".js",
		"Dockerfile":            NoExtension,
		".gitignore":            NoExtension,
		"config/.eslintrc.json": ".json",
		"dist/app.min.js":       ".js",
		"archive.tar.gz":        ".gz",
		"weird.":                NoExtension,
		"docs/README.md":        ".md",
	}
	for in, want := range tests {
		assert.Equal(t, want, Extension(in), in)
	}
}

func TestTopFileTypes_OrderAndLimit(t *testing.T) {
	counts := map[string]int{".js": 5, ".ts": 5, ".md": 2, NoExtension: 1, ".json": 7}

	all := TopFileTypes(counts, 0)
	assert.Equal(t, []interfaces.FileTypeCount{
		{Extension: ".json", Count: 7},
		{Extension: ".js", Count: 5},
		{Extension: ".ts", Count: 5},
		{Extension: ".md", Count: 2},
		{Extension: NoExtension, Count: 1},
	}, all)

	assert.Len(t, TopFileTypes(counts, 2), 2)
	assert.Empty(t, TopFileTypes(nil, 3))
}

func TestFileTypesAnalyzer(t *testing.T) {
	snap := &interfaces.Snapshot{Files: []string{"a.js", "b.js", "c.ts", "Makefile"}}

	res, err := NewFileTypesAnalyzer(2).Analyze(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Metadata[KeyTotalFiles])
	assert.Equal(t, []interfaces.FileTypeCount{
		{Extension: ".js", Count: 2},
		{Extension: NoExtension, Count: 1},
	}, res.Metadata[KeyFileTypes])
}

func TestInfrastructureAnalyzer(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  interfaces.Infrastructure
	}{
		{"empty", nil, interfaces.Infrastructure{}},
		{"dockerfile", []string{"build/Dockerfile.prod"}, interfaces.Infrastructure{HasDockerfile: true}},
		{"compose", []string{"docker-compose.yml"}, interfaces.Infrastructure{HasDockerCompose: true}},
		{"k8s dir", []string{"deploy/k8s/deployment.yaml"}, interfaces.Infrastructure{HasKubernetes: true}},
		{"helm chart", []string{"Chart.yaml"}, interfaces.Infrastructure{HasKubernetes: true}},
		{"terraform", []string{"infra/main.tf"}, interfaces.Infrastructure{HasTerraform: true}},
		{"serverless", []string{"serverless.yml"}, interfaces.Infrastructure{HasServerless: true}},
		{"workflows", []string{".github/workflows/ci.yml"}, interfaces.Infrastructure{HasCIWorkflows: true}},
		{"procfile", []string{"Procfile"}, interfaces.Infrastructure{HasProcfile: true}},
		{"not k8s", []string{"src/k8sclient.js"}, interfaces.Infrastructure{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewInfrastructureAnalyzer().Analyze(context.Background(), &interfaces.Snapshot{Files: tt.files})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Metadata[KeyInfrastructure])
		})
	}
}

func TestDependenciesAnalyzer_MissingManifestScoresEmptyText(t *testing.T) {
	s := &stubScorer{}
	snap := &interfaces.Snapshot{
		Files:    []string{"go.mod", "web/package.json", "api/requirements.txt"},
		Manifest: interfaces.FileContent{OK: false, Content: "ignored"},
	}

	res, err := NewDependenciesAnalyzer(s).Analyze(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, []string{""}, s.got)
	assert.Equal(t, []string{"Go", "JavaScript/TypeScript", "Python"}, res.Metadata[KeyEcosystems])
	assert.NotNil(t, res.Metadata[KeyScore])
}

func TestDependenciesAnalyzer_UsesManifestContent(t *testing.T) {
	s := &stubScorer{}
	snap := &interfaces.Snapshot{Manifest: interfaces.FileContent{OK: true, Content: `{"dependencies":{}}`}}

	_, err := NewDependenciesAnalyzer(s).Analyze(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"dependencies":{}}`}, s.got)
}

func TestActivityAnalyzer(t *testing.T) {
	older := interfaces.Commit{SHA: "a", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := interfaces.Commit{SHA: "b", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}

	res, err := NewActivityAnalyzer().Analyze(context.Background(), &interfaces.Snapshot{
		Commits: []interfaces.Commit{older, newer},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metadata[KeyRecentCommits])
	assert.Equal(t, newer, res.Metadata[KeyLastCommit])

	res, err = NewActivityAnalyzer().Analyze(context.Background(), &interfaces.Snapshot{})
	require.NoError(t, err)
	assert.NotContains(t, res.Metadata, KeyLastCommit)
}

func TestSummarize(t *testing.T) {
	snap := &interfaces.Snapshot{
		Owner:    "acme",
		Repo:     "app",
		Files:    []string{"package.json", "Dockerfile", "src/a.js"},
		Manifest: interfaces.FileContent{OK: true, Content: `{"dependencies":{}}`},
		SizeMB:   1.5,
		Commits:  []interfaces.Commit{{SHA: "x"}},
	}

	s := &stubScorer{}
	results, err := NewEngine(DefaultRegistry(s, 10)).Run(context.Background(), snap)
	require.NoError(t, err)

	meta, score := Summarize(snap, results)
	require.NotNil(t, score)
	assert.Equal(t, interfaces.ParseOK, score.Status)
	assert.Equal(t, 3, meta.TotalFiles)
	assert.Equal(t, 1.5, meta.SizeMB)
	assert.True(t, meta.HasManifest)
	assert.True(t, meta.Infrastructure.HasDockerfile)
	assert.Equal(t, 1, meta.RecentCommits)
	require.NotNil(t, meta.LastCommit)
	assert.Equal(t, "x", meta.LastCommit.SHA)
	assert.Equal(t, []string{"JavaScript/TypeScript"}, meta.Ecosystems)
	assert.Len(t, meta.FileTypes, 3)
}

func TestSummarize_SkipsFailedResults(t *testing.T) {
	snap := &interfaces.Snapshot{Files: []string{"a.js"}}
	results := []*interfaces.AnalysisResult{
		nil,
		{AnalyzerName: "dependencies", Error: assert.AnError},
	}

	meta, score := Summarize(snap, results)
	assert.Nil(t, score)
	assert.Equal(t, 1, meta.TotalFiles)
	assert.Empty(t, meta.FileTypes)
}
