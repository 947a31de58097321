package analyzer

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Metadata keys written by the built-in analyzers.
const (
	KeyTotalFiles     = "total_files"
	KeyFileTypes      = "file_types"
	KeyInfrastructure = "infrastructure"
	KeyScore          = "score"
	KeyEcosystems     = "ecosystems"
	KeyRecentCommits  = "recent_commits"
	KeyLastCommit     = "last_commit"
)

// NoExtension is the histogram bucket for files without an extension.
const NoExtension = "(none)"

// FileTypesAnalyzer builds a histogram of file extensions.
type FileTypesAnalyzer struct {
	top int
}

// NewFileTypesAnalyzer creates a histogram analyzer keeping the top buckets.
// A non-positive top keeps every bucket.
func NewFileTypesAnalyzer(top int) *FileTypesAnalyzer {
	return &FileTypesAnalyzer{top: top}
}

// Name returns the analyzer identifier.
func (f *FileTypesAnalyzer) Name() string {
	return "filetypes"
}

// Analyze counts files per extension.
func (f *FileTypesAnalyzer) Analyze(ctx context.Context, snap *interfaces.Snapshot) (*interfaces.AnalysisResult, error) {
	counts := make(map[string]int)
	for i, p := range snap.Files {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		counts[Extension(p)]++
	}

	return &interfaces.AnalysisResult{
		AnalyzerName: f.Name(),
		Metadata: map[string]any{
			KeyTotalFiles: len(snap.Files),
			KeyFileTypes:  TopFileTypes(counts, f.top),
		},
	}, nil
}

// Extension returns the lower-cased extension of p including the dot.
// Dotfiles such as .gitignore and names without a dot map to NoExtension.
func Extension(p string) string {
	base := path.Base(p)
	trimmed := strings.TrimLeft(base, ".")
	ext := path.Ext(trimmed)
	if ext == "" || ext == "." {
		return NoExtension
	}
	return strings.ToLower(ext)
}

// TopFileTypes orders buckets by count descending, then extension ascending,
// and keeps at most top of them. A non-positive top keeps all.
func TopFileTypes(counts map[string]int, top int) []interfaces.FileTypeCount {
	out := make([]interfaces.FileTypeCount, 0, len(counts))
	for ext, n := range counts {
		out = append(out, interfaces.FileTypeCount{Extension: ext, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Extension < out[j].Extension
	})

	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
