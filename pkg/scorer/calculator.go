package scorer

import (
	"log/slog"
	"slices"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Calculator computes dependency risk scores from manifests.
type Calculator struct {
	catalog Catalog
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithCatalog replaces the built-in heavy package catalog.
func WithCatalog(c Catalog) Option {
	return func(calc *Calculator) {
		calc.catalog = c
	}
}

// NewCalculator creates a scorer with optional configuration.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		catalog: heavyPackages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes a ScoreReport from a parsed manifest.
// Each dependency is visited once in manifest order. Catalog hits add their
// weight to the total and to their category; misses only count toward
// TotalDependencies.
func (c *Calculator) Score(m *interfaces.Manifest) interfaces.ScoreReport {
	if m == nil {
		return EmptyReport()
	}

	report := EmptyReport()
	report.Analysis.TotalDependencies = len(m.Dependencies)

	for _, dep := range m.Dependencies {
		pkg, ok := c.catalog.Lookup(dep.Name)
		if !ok {
			continue
		}
		report.HeavyPackages = append(report.HeavyPackages, dep.Name)
		report.TotalWeight += pkg.Weight
		report.Categories[pkg.Category] += pkg.Weight
	}

	report.RiskLevel = RiskLevelFromWeight(report.TotalWeight)
	report.Analysis.HasBrowserAutomation = containsAny(report.HeavyPackages, browserAutomationPackages)
	report.Analysis.HasAI = containsAny(report.HeavyPackages, aiPackages)
	report.Analysis.HasImageProcessing = containsAny(report.HeavyPackages, imageProcessingPackages)
	report.Analysis.HasVideoProcessing = containsAny(report.HeavyPackages, videoProcessingPackages)
	report.Analysis.HasDatabase = containsAny(report.HeavyPackages, databasePackages)

	return report
}

// Analyze parses manifest text and scores it. It never fails: text that
// cannot be parsed yields the empty LOW report with a failed status.
func (c *Calculator) Analyze(text string) *interfaces.ScoreResult {
	m, err := ParseManifest(text)
	if err != nil {
		slog.Debug("manifest parse failed, using empty score", "error", err)
		return &interfaces.ScoreResult{
			Status:     interfaces.ParseFailed,
			ParseError: err.Error(),
			Report:     EmptyReport(),
		}
	}

	return &interfaces.ScoreResult{
		Status: interfaces.ParseOK,
		Report: c.Score(m),
	}
}

// AnalyzeManifest scores manifest text against the built-in catalog.
func AnalyzeManifest(text string) *interfaces.ScoreResult {
	return NewCalculator().Analyze(text)
}

// EmptyReport returns the zero report: no matches, LOW risk, all flags false.
func EmptyReport() interfaces.ScoreReport {
	return interfaces.ScoreReport{
		HeavyPackages: []string{},
		Categories:    map[string]int{},
		RiskLevel:     interfaces.RiskLow,
	}
}

// containsAny reports whether any of names appears in set.
func containsAny(names, set []string) bool {
	return slices.ContainsFunc(names, func(n string) bool {
		return slices.Contains(set, n)
	})
}
