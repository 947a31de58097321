package analyzer

import (
	"log/slog"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Summarize folds analyzer results into repository metadata and the
// dependency score. Results from failed analyzers are skipped, leaving the
// matching fields at their zero values. The returned score is nil when the
// dependencies analyzer did not produce one.
func Summarize(snap *interfaces.Snapshot, results []*interfaces.AnalysisResult) (interfaces.RepoMetadata, *interfaces.ScoreResult) {
	meta := interfaces.RepoMetadata{
		TotalFiles:  len(snap.Files),
		SizeMB:      snap.SizeMB,
		HasManifest: snap.Manifest.OK,
		FileTypes:   []interfaces.FileTypeCount{},
	}
	var score *interfaces.ScoreResult

	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Error != nil {
			slog.Warn("skipping failed analyzer", "name", r.AnalyzerName, "error", r.Error)
			continue
		}

		for key, v := range r.Metadata {
			switch key {
			case KeyTotalFiles:
				if n, ok := v.(int); ok {
					meta.TotalFiles = n
				}
			case KeyFileTypes:
				if ft, ok := v.([]interfaces.FileTypeCount); ok {
					meta.FileTypes = ft
				}
			case KeyInfrastructure:
				if infra, ok := v.(interfaces.Infrastructure); ok {
					meta.Infrastructure = infra
				}
			case KeyEcosystems:
				if eco, ok := v.([]string); ok {
					meta.Ecosystems = eco
				}
			case KeyRecentCommits:
				if n, ok := v.(int); ok {
					meta.RecentCommits = n
				}
			case KeyLastCommit:
				if c, ok := v.(interfaces.Commit); ok {
					meta.LastCommit = &c
				}
			case KeyScore:
				if s, ok := v.(*interfaces.ScoreResult); ok {
					score = s
				}
			}
		}
	}

	return meta, score
}
