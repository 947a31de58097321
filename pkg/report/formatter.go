package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTerminal = "terminal"
)

// Formatter renders reports and bare dependency scores.
type Formatter interface {
	Format(w io.Writer, report *interfaces.Report) error
	FormatScore(w io.Writer, res *interfaces.ScoreResult) error
}

// Encoder is implemented by the structured formatters, which can write any
// value in their format.
type Encoder interface {
	Encode(w io.Writer, v any) error
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "md":
		return NewMarkdownFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML, "yml":
		return NewYAMLFormatter(), nil
	case FormatTerminal, "text":
		return NewTerminalFormatter(), nil
	default:
		return nil, fmt.Errorf("report: unknown format %q (want markdown, json, yaml or terminal)", format)
	}
}
