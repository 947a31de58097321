package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/toyinlola/heft/pkg/ai"
	"github.com/toyinlola/heft/pkg/ai/prompts"
	"github.com/toyinlola/heft/pkg/interfaces"
)

// markdownContext holds all data passed to the report template.
type markdownContext struct {
	Report     *interfaces.Report
	Score      interfaces.ScoreReport
	Failed     bool
	Categories []categoryWeight
	Infra      []string
	Fit        Fit
	Commits    []interfaces.Commit
	Sections   []string
	Disclaimer string
}

type categoryWeight struct {
	Name   string
	Weight int
}

const reportTemplate = `# Heaviness Report: {{ .Report.Owner }}/{{ .Report.Repo }} {{ badge .Score.RiskLevel }}

## {{ index .Sections 0 }}

{{ .Report.Owner }}/{{ .Report.Repo }} scores **{{ .Score.TotalWeight }}** on the dependency weight scale, which is **{{ .Score.RiskLevel }}** risk.
{{- if .Failed }}
No readable package.json was found, so the dependency score is empty.
{{- end }}
The repository has {{ .Report.Metadata.TotalFiles }} files and takes {{ printf "%.2f" .Report.Metadata.SizeMB }} MB.

## {{ index .Sections 1 }}

| Metric | Value |
|--------|-------|
| **Risk Level** | {{ .Score.RiskLevel }} |
| **Total Weight** | {{ .Score.TotalWeight }} |
| **Dependencies** | {{ .Score.Analysis.TotalDependencies }} |
| **Heavy Packages** | {{ if .Score.HeavyPackages }}{{ join .Score.HeavyPackages ", " }}{{ else }}none{{ end }} |
{{- if .Categories }}

| Category | Weight |
|----------|--------|
{{- range .Categories }}
| {{ .Name }} | {{ .Weight }} |
{{- end }}
{{- end }}

Capabilities: browser automation {{ yesno .Score.Analysis.HasBrowserAutomation }}, AI/ML {{ yesno .Score.Analysis.HasAI }}, image processing {{ yesno .Score.Analysis.HasImageProcessing }}, video processing {{ yesno .Score.Analysis.HasVideoProcessing }}, database clients {{ yesno .Score.Analysis.HasDatabase }}.

## {{ index .Sections 2 }}

| Metric | Value |
|--------|-------|
| **Files** | {{ .Report.Metadata.TotalFiles }} |
| **Size** | {{ printf "%.2f" .Report.Metadata.SizeMB }} MB |
{{- if .Report.Metadata.Ecosystems }}
| **Ecosystems** | {{ join .Report.Metadata.Ecosystems ", " }} |
{{- end }}
| **Recent Commits** | {{ .Report.Metadata.RecentCommits }} |
{{- with .Report.Metadata.LastCommit }}
| **Last Commit** | {{ .Date.Format "2006-01-02" }} |
{{- end }}
{{- if .Report.Metadata.FileTypes }}

| Extension | Files |
|-----------|-------|
{{- range .Report.Metadata.FileTypes }}
| {{ .Extension }} | {{ .Count }} |
{{- end }}
{{- end }}
{{- if .Commits }}

<details>
<summary>Recent commits ({{ len .Commits }})</summary>

{{ range .Commits }}- ` + "`{{ short .SHA }}`" + ` {{ .Message }}
{{ end }}
</details>
{{- end }}

## {{ index .Sections 3 }}

{{ if .Infra }}Detected: {{ join .Infra ", " }}.{{ else }}No deployment or infrastructure files detected.{{ end }}

## {{ index .Sections 4 }}

Target server: {{ .Report.ServerSpecs.CPUCores }} CPU cores, {{ .Report.ServerSpecs.RAMGB }} GB RAM.
A {{ .Score.RiskLevel }} footprint suggests at least {{ .Fit.MinCPUCores }} CPU cores and {{ .Fit.MinRAMGB }} GB RAM. The fit looks **{{ .Fit.Verdict }}**.

## {{ index .Sections 5 }}

{{ range .Fit.Recommendations }}- {{ . }}
{{ end }}
---
*{{ .Disclaimer }}*

*Report ID: {{ .Report.ID }} | Generated: {{ .Report.Timestamp.Format "2006-01-02 15:04:05" }}*
`

var markdownTmpl = template.Must(template.New("heft-report").Funcs(template.FuncMap{
	"join":  strings.Join,
	"badge": RiskBadge,
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
	"short": func(sha string) string {
		if len(sha) > 7 {
			return sha[:7]
		}
		return sha
	},
}).Parse(reportTemplate))

// RenderMarkdown renders the deterministic markdown report.
func RenderMarkdown(rpt *interfaces.Report, commits []interfaces.Commit) (string, error) {
	score := rpt.Score.Report

	cats := make([]categoryWeight, 0, len(score.Categories))
	for _, name := range sortedCategories(score.Categories) {
		cats = append(cats, categoryWeight{Name: name, Weight: score.Categories[name]})
	}

	data := markdownContext{
		Report:     rpt,
		Score:      score,
		Failed:     rpt.Score.Status == interfaces.ParseFailed,
		Categories: cats,
		Infra:      ai.InfrastructureLabels(rpt.Metadata.Infrastructure),
		Fit:        AssessFit(score, rpt.ServerSpecs),
		Commits:    commits,
		Sections:   prompts.ReportSections,
		Disclaimer: prompts.Disclaimer,
	}

	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarkdownFormatter writes the report markdown body.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a Markdown report formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the report markdown, rendering the template when the body is empty.
func (f *MarkdownFormatter) Format(w io.Writer, report *interfaces.Report) error {
	body := report.Markdown
	if body == "" {
		var err error
		if body, err = RenderMarkdown(report, nil); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, strings.TrimRight(body, "\n")+"\n")
	return err
}

// FormatScore writes a single dependency score as a markdown table.
func (f *MarkdownFormatter) FormatScore(w io.Writer, res *interfaces.ScoreResult) error {
	r := res.Report

	fmt.Fprintf(w, "# Dependency Score %s\n\n", RiskBadge(r.RiskLevel))
	if res.Status == interfaces.ParseFailed {
		fmt.Fprintf(w, "> Manifest could not be parsed: %s\n\n", res.ParseError)
	}
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| **Risk Level** | %s |\n", r.RiskLevel)
	fmt.Fprintf(w, "| **Total Weight** | %d |\n", r.TotalWeight)
	fmt.Fprintf(w, "| **Dependencies** | %d |\n", r.Analysis.TotalDependencies)
	if len(r.HeavyPackages) > 0 {
		fmt.Fprintf(w, "| **Heavy Packages** | %s |\n", strings.Join(r.HeavyPackages, ", "))
	}
	for _, cat := range sortedCategories(r.Categories) {
		fmt.Fprintf(w, "| %s | %d |\n", cat, r.Categories[cat])
	}
	return nil
}

// RiskBadge returns the emoji badge for a risk level.
func RiskBadge(level interfaces.RiskLevel) string {
	switch level {
	case interfaces.RiskLow:
		return "🟢"
	case interfaces.RiskMedium:
		return "🟡"
	case interfaces.RiskHigh:
		return "🟠"
	case interfaces.RiskCritical:
		return "🔴"
	default:
		return "⚪"
	}
}
