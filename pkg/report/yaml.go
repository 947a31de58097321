package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// YAMLFormatter writes a report as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a YAML report formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes the report as YAML to the given writer.
func (f *YAMLFormatter) Format(w io.Writer, report *interfaces.Report) error {
	return f.Encode(w, report)
}

// FormatScore writes a score result as YAML.
func (f *YAMLFormatter) FormatScore(w io.Writer, res *interfaces.ScoreResult) error {
	return f.Encode(w, res)
}

// Encode writes any value as YAML with two-space indentation.
func (f *YAMLFormatter) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
