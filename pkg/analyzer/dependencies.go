package analyzer

import (
	"context"
	"log/slog"
	"path"
	"sort"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// ManifestPath is the manifest the dependency score is computed from.
const ManifestPath = "package.json"

// Dependency manifest filenames and the ecosystem they belong to.
// Only package.json is scored; the rest are reported as detected ecosystems.
var dependencyManifests = map[string]string{
	"go.mod":            "Go",
	"package.json":      "JavaScript/TypeScript",
	"package-lock.json": "JavaScript/TypeScript",
	"yarn.lock":         "JavaScript/TypeScript",
	"pnpm-lock.yaml":    "JavaScript/TypeScript",
	"requirements.txt":  "Python",
	"Pipfile":           "Python",
	"pyproject.toml":    "Python",
	"poetry.lock":       "Python",
	"Cargo.toml":        "Rust",
	"pom.xml":           "Java",
	"build.gradle":      "Java",
	"build.gradle.kts":  "Kotlin",
	"Gemfile":           "Ruby",
	"composer.json":     "PHP",
	"mix.exs":           "Elixir",
	"Package.swift":     "Swift",
}

// ManifestScorer scores manifest text. It never fails.
type ManifestScorer interface {
	Analyze(text string) *interfaces.ScoreResult
}

// DependenciesAnalyzer scores the snapshot manifest and lists detected ecosystems.
type DependenciesAnalyzer struct {
	scorer ManifestScorer
}

// NewDependenciesAnalyzer creates a dependency analyzer backed by scorer.
func NewDependenciesAnalyzer(scorer ManifestScorer) *DependenciesAnalyzer {
	return &DependenciesAnalyzer{scorer: scorer}
}

// Name returns the analyzer identifier.
func (d *DependenciesAnalyzer) Name() string {
	return "dependencies"
}

// Analyze scores the manifest. A missing manifest is scored as empty text,
// which yields the failed zero report.
func (d *DependenciesAnalyzer) Analyze(ctx context.Context, snap *interfaces.Snapshot) (*interfaces.AnalysisResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	text := ""
	if snap.Manifest.OK {
		text = snap.Manifest.Content
	} else {
		slog.Debug("manifest unavailable, scoring empty text", "repo", snap.Owner+"/"+snap.Repo)
	}

	return &interfaces.AnalysisResult{
		AnalyzerName: d.Name(),
		Metadata: map[string]any{
			KeyScore:      d.scorer.Analyze(text),
			KeyEcosystems: DetectEcosystems(snap.Files),
		},
	}, nil
}

// DetectEcosystems returns the sorted, distinct ecosystems whose manifest
// files appear anywhere in files.
func DetectEcosystems(files []string) []string {
	seen := make(map[string]bool)
	for _, p := range files {
		if eco, ok := dependencyManifests[path.Base(p)]; ok {
			seen[eco] = true
		}
	}

	out := make([]string, 0, len(seen))
	for eco := range seen {
		out = append(out, eco)
	}
	sort.Strings(out)
	return out
}
