package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyinlola/heft/pkg/interfaces"
)

const (
	// DefaultMaxTokenBudget is the default maximum token budget for context (estimated 4 chars per token).
	DefaultMaxTokenBudget = 4000
	charsPerToken         = 4
)

// ReportInput is the deterministic data a report is narrated from.
type ReportInput struct {
	Owner    string
	Repo     string
	Specs    interfaces.ServerSpecs
	Score    *interfaces.ScoreResult
	Metadata interfaces.RepoMetadata
	Commits  []interfaces.Commit
}

// BuildContext renders the report data as a compact text block for LLM consumption.
// It respects the given maxTokenBudget (in tokens, estimated at 4 chars/token).
// The header and dependency score are always included; the file-type
// histogram and the commit list are cut first when the budget is exceeded.
func BuildContext(in ReportInput, maxTokenBudget int) string {
	if maxTokenBudget <= 0 {
		maxTokenBudget = DefaultMaxTokenBudget
	}
	maxChars := maxTokenBudget * charsPerToken

	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s/%s\n", in.Owner, in.Repo)
	fmt.Fprintf(&b, "Target server: %d CPU cores, %d GB RAM\n\n", in.Specs.CPUCores, in.Specs.RAMGB)

	b.WriteString(scoreContext(in.Score))
	b.WriteString(profileContext(in.Metadata))

	for _, section := range []string{fileTypesContext(in.Metadata.FileTypes), commitsContext(in.Commits)} {
		if section == "" {
			continue
		}
		if b.Len() >= maxChars {
			b.WriteString("\n... (remaining sections truncated to fit token budget)\n")
			break
		}
		if b.Len()+len(section) > maxChars {
			remaining := maxChars - b.Len()
			if remaining > 100 {
				b.WriteString(section[:runeBoundary(section, remaining)])
				b.WriteString("\n... (section truncated)\n")
			}
			break
		}
		b.WriteString(section)
	}

	return b.String()
}

func scoreContext(res *interfaces.ScoreResult) string {
	var b strings.Builder
	b.WriteString("Dependency analysis (package.json):\n")

	if res == nil {
		b.WriteString("- not available\n\n")
		return b.String()
	}
	if res.Status == interfaces.ParseFailed {
		b.WriteString("- manifest missing or unparseable, scored as empty\n")
	}

	r := res.Report
	fmt.Fprintf(&b, "- Risk level: %s\n", r.RiskLevel)
	fmt.Fprintf(&b, "- Total weight: %d\n", r.TotalWeight)
	fmt.Fprintf(&b, "- Total dependencies: %d\n", r.Analysis.TotalDependencies)
	if len(r.HeavyPackages) > 0 {
		fmt.Fprintf(&b, "- Heavy packages: %s\n", strings.Join(r.HeavyPackages, ", "))
	} else {
		b.WriteString("- Heavy packages: none\n")
	}
	for _, cat := range sortedKeys(r.Categories) {
		fmt.Fprintf(&b, "  - %s: %d\n", cat, r.Categories[cat])
	}

	a := r.Analysis
	fmt.Fprintf(&b, "- Browser automation: %t\n", a.HasBrowserAutomation)
	fmt.Fprintf(&b, "- AI/ML: %t\n", a.HasAI)
	fmt.Fprintf(&b, "- Image processing: %t\n", a.HasImageProcessing)
	fmt.Fprintf(&b, "- Video processing: %t\n", a.HasVideoProcessing)
	fmt.Fprintf(&b, "- Database clients: %t\n\n", a.HasDatabase)
	return b.String()
}

func profileContext(m interfaces.RepoMetadata) string {
	var b strings.Builder
	b.WriteString("Repository profile:\n")
	fmt.Fprintf(&b, "- Files: %d\n", m.TotalFiles)
	fmt.Fprintf(&b, "- Size: %.2f MB\n", m.SizeMB)
	if len(m.Ecosystems) > 0 {
		fmt.Fprintf(&b, "- Ecosystems: %s\n", strings.Join(m.Ecosystems, ", "))
	}

	if infra := InfrastructureLabels(m.Infrastructure); len(infra) > 0 {
		fmt.Fprintf(&b, "- Infrastructure: %s\n", strings.Join(infra, ", "))
	} else {
		b.WriteString("- Infrastructure: none detected\n")
	}

	fmt.Fprintf(&b, "- Recent commits: %d\n", m.RecentCommits)
	if m.LastCommit != nil && !m.LastCommit.Date.IsZero() {
		fmt.Fprintf(&b, "- Last commit: %s\n", m.LastCommit.Date.Format("2006-01-02"))
	}
	b.WriteString("\n")
	return b.String()
}

func fileTypesContext(types []interfaces.FileTypeCount) string {
	if len(types) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("File types:\n")
	for _, ft := range types {
		fmt.Fprintf(&b, "- %s: %d\n", ft.Extension, ft.Count)
	}
	b.WriteString("\n")
	return b.String()
}

func commitsContext(commits []interfaces.Commit) string {
	if len(commits) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent commits:\n")
	for _, c := range commits {
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		fmt.Fprintf(&b, "- %s %s\n", sha, truncateStr(c.Message, 72))
	}
	b.WriteString("\n")
	return b.String()
}

// InfrastructureLabels lists the detected infrastructure kinds in a fixed order.
func InfrastructureLabels(in interfaces.Infrastructure) []string {
	var out []string
	for _, f := range []struct {
		on    bool
		label string
	}{
		{in.HasDockerfile, "Dockerfile"},
		{in.HasDockerCompose, "Docker Compose"},
		{in.HasKubernetes, "Kubernetes"},
		{in.HasTerraform, "Terraform"},
		{in.HasServerless, "Serverless"},
		{in.HasCIWorkflows, "CI workflows"},
		{in.HasProcfile, "Procfile"},
	} {
		if f.on {
			out = append(out, f.label)
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
