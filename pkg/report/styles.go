package report

import "github.com/charmbracelet/lipgloss"

// Colors used by the terminal formatter.
var (
	colorPrimary = lipgloss.Color("#64b5f6")
	colorSuccess = lipgloss.Color("#66bb6a")
	colorWarning = lipgloss.Color("#fff59d")
	colorOrange  = lipgloss.Color("#ffa726")
	colorError   = lipgloss.Color("#ef5350")
	colorMuted   = lipgloss.Color("#888888")
)

var (
	styleHeader = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleLabel = lipgloss.NewStyle().
			Width(22)

	riskStyles = map[string]lipgloss.Style{
		"LOW":      lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		"MEDIUM":   lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		"HIGH":     lipgloss.NewStyle().Foreground(colorOrange).Bold(true),
		"CRITICAL": lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}
)

var noColor bool

// SetNoColor disables or enables color output globally.
// When disabled, all package-level styles are reassigned to unstyled renderers.
func SetNoColor(disabled bool) {
	noColor = disabled
	if !disabled {
		return
	}
	plain := lipgloss.NewStyle()
	styleHeader = plain
	styleMuted = plain
	styleBold = plain
	styleLabel = plain.Width(22)
	for k := range riskStyles {
		riskStyles[k] = plain
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}
