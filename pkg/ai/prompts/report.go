// Package prompts provides LLM prompt templates for narrated repository reports.
package prompts

import (
	"fmt"
	"strings"
)

// Section headings every narrated report is asked to produce, in order.
var ReportSections = []string{
	"Summary",
	"Dependency Footprint",
	"Repository Profile",
	"Infrastructure",
	"Server Fit",
	"Recommendations",
}

// Disclaimer is appended to every report.
const Disclaimer = "This is a static estimate based on declared dependencies and repository metadata. " +
	"It does not measure runtime memory or CPU use and is not a substitute for capacity planning."

const reportSystemPrompt = `You are a senior platform engineer estimating how resource-heavy a software repository is to run.
You are given deterministic facts collected from the repository: a dependency risk score computed from package.json,
a file-type histogram, repository size, infrastructure files and recent commit activity.

Write a concise markdown report. Rules:
- Use exactly these second-level headings, in this order:
%s
- Ground every statement in the facts provided. Do not invent packages, files or numbers.
- Under "Server Fit", compare the footprint with the target server and say whether it looks comfortable, tight or insufficient.
- Keep the whole report under 600 words.
- Output markdown only. Do not wrap the report in a code fence.
- End with this disclaimer as an italic paragraph: %s`

// ReportSystemPrompt returns the system prompt for report narration.
func ReportSystemPrompt() string {
	lines := make([]string, len(ReportSections))
	for i, s := range ReportSections {
		lines[i] = "  ## " + s
	}
	return fmt.Sprintf(reportSystemPrompt, strings.Join(lines, "\n"), Disclaimer)
}

// ReportPrompt builds the user prompt from the rendered report context.
func ReportPrompt(owner, repo, reportContext string) string {
	return fmt.Sprintf(`Write the heaviness report for the GitHub repository %s/%s.

%s
Start the report with the heading "# Heaviness Report: %s/%s".`, owner, repo, reportContext, owner, repo)
}
