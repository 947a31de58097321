package analyzer

import (
	"context"
	"path"
	"strings"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// kubernetesDirs are directory names that indicate Kubernetes manifests.
var kubernetesDirs = []string{"k8s", "kubernetes", "helm", "charts"}

// InfrastructureAnalyzer flags deployment and build files in the tree.
type InfrastructureAnalyzer struct{}

// NewInfrastructureAnalyzer creates a new infrastructure file analyzer.
func NewInfrastructureAnalyzer() *InfrastructureAnalyzer {
	return &InfrastructureAnalyzer{}
}

// Name returns the analyzer identifier.
func (a *InfrastructureAnalyzer) Name() string {
	return "infrastructure"
}

// Analyze walks the file list once and sets a flag per infrastructure kind.
func (a *InfrastructureAnalyzer) Analyze(ctx context.Context, snap *interfaces.Snapshot) (*interfaces.AnalysisResult, error) {
	var infra interfaces.Infrastructure

	for i, p := range snap.Files {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		classifyInfraFile(p, &infra)
	}

	return &interfaces.AnalysisResult{
		AnalyzerName: a.Name(),
		Metadata:     map[string]any{KeyInfrastructure: infra},
	}, nil
}

func classifyInfraFile(p string, infra *interfaces.Infrastructure) {
	base := path.Base(p)
	lower := strings.ToLower(base)

	switch {
	case lower == "dockerfile" || strings.HasPrefix(lower, "dockerfile.") || strings.HasSuffix(lower, ".dockerfile"):
		infra.HasDockerfile = true
	case strings.HasPrefix(lower, "docker-compose") || lower == "compose.yml" || lower == "compose.yaml":
		infra.HasDockerCompose = true
	case base == "Chart.yaml":
		infra.HasKubernetes = true
	case path.Ext(lower) == ".tf":
		infra.HasTerraform = true
	case lower == "serverless.yml" || lower == "serverless.yaml":
		infra.HasServerless = true
	case base == "Procfile":
		infra.HasProcfile = true
	}

	if strings.HasPrefix(p, ".github/workflows/") {
		infra.HasCIWorkflows = true
	}

	dir := path.Dir(p)
	if dir == "." {
		return
	}
	for _, seg := range strings.Split(dir, "/") {
		for _, k := range kubernetesDirs {
			if strings.EqualFold(seg, k) {
				infra.HasKubernetes = true
				return
			}
		}
	}
}
