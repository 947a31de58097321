package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/toyinlola/heft/pkg/ai"
	"github.com/toyinlola/heft/pkg/interfaces"
)

const rule = "──────────────────────────────────────────"

// TerminalFormatter writes a styled report to a terminal.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a terminal report formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// Format writes the summary block followed by the markdown body.
func (f *TerminalFormatter) Format(w io.Writer, report *interfaces.Report) error {
	fmt.Fprintf(w, "\n%s\n", styleHeader.Render(fmt.Sprintf("heft report: %s/%s", report.Owner, report.Repo)))
	fmt.Fprintf(w, "%s\n\n", styleMuted.Render(rule))

	f.writeScore(w, &report.Score)

	meta := report.Metadata
	writeRow(w, "Files", fmt.Sprintf("%d", meta.TotalFiles))
	writeRow(w, "Size", fmt.Sprintf("%.2f MB", meta.SizeMB))
	if infra := ai.InfrastructureLabels(meta.Infrastructure); len(infra) > 0 {
		writeRow(w, "Infrastructure", strings.Join(infra, ", "))
	}
	writeRow(w, "Target server", fmt.Sprintf("%d cores / %d GB", report.ServerSpecs.CPUCores, report.ServerSpecs.RAMGB))
	writeRow(w, "Fit", AssessFit(report.Score.Report, report.ServerSpecs).Verdict)
	fmt.Fprintln(w)

	if report.Markdown != "" {
		fmt.Fprintf(w, "%s\n\n", styleMuted.Render(rule))
		fmt.Fprintln(w, strings.TrimRight(report.Markdown, "\n"))
		fmt.Fprintln(w)
	}

	source := "template"
	if report.Narrated {
		source = "narrated"
	}
	fmt.Fprintf(w, "%s\n", styleMuted.Render(rule))
	fmt.Fprintf(w, "%s\n\n", styleMuted.Render(fmt.Sprintf("Report: %s | %s | Generated: %s",
		report.ID, source, report.Timestamp.Format("2006-01-02 15:04:05"))))
	return nil
}

// FormatScore writes a styled dependency score.
func (f *TerminalFormatter) FormatScore(w io.Writer, res *interfaces.ScoreResult) error {
	fmt.Fprintf(w, "\n%s\n", styleHeader.Render("heft dependency score"))
	fmt.Fprintf(w, "%s\n\n", styleMuted.Render(rule))
	f.writeScore(w, res)
	return nil
}

func (f *TerminalFormatter) writeScore(w io.Writer, res *interfaces.ScoreResult) {
	r := res.Report

	writeRow(w, "Risk", riskStyle(r.RiskLevel).Render(string(r.RiskLevel)))
	writeRow(w, "Total weight", styleBold.Render(fmt.Sprintf("%d", r.TotalWeight)))
	writeRow(w, "Dependencies", fmt.Sprintf("%d", r.Analysis.TotalDependencies))
	if res.Status == interfaces.ParseFailed {
		writeRow(w, "Manifest", styleMuted.Render("unparseable: "+res.ParseError))
	}

	if len(r.HeavyPackages) > 0 {
		writeRow(w, "Heavy packages", strings.Join(r.HeavyPackages, ", "))
	}
	for _, cat := range sortedCategories(r.Categories) {
		writeRow(w, "  "+cat, fmt.Sprintf("%d", r.Categories[cat]))
	}

	var caps []string
	a := r.Analysis
	for _, c := range []struct {
		on    bool
		label string
	}{
		{a.HasBrowserAutomation, "browser automation"},
		{a.HasAI, "AI/ML"},
		{a.HasImageProcessing, "image processing"},
		{a.HasVideoProcessing, "video processing"},
		{a.HasDatabase, "database"},
	} {
		if c.on {
			caps = append(caps, c.label)
		}
	}
	if len(caps) > 0 {
		writeRow(w, "Capabilities", strings.Join(caps, ", "))
	}
	fmt.Fprintln(w)
}

func writeRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s%s\n", styleLabel.Render(label), value)
}

func riskStyle(level interfaces.RiskLevel) lipgloss.Style {
	if s, ok := riskStyles[string(level)]; ok {
		return s
	}
	return styleBold
}
