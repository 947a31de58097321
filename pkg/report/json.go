package report

import (
	"encoding/json"
	"io"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// JSONFormatter writes reports and scores as two-space indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON report formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the report as indented JSON to the given writer.
func (f *JSONFormatter) Format(w io.Writer, report *interfaces.Report) error {
	return f.Encode(w, report)
}

// FormatScore writes a score result as indented JSON.
func (f *JSONFormatter) FormatScore(w io.Writer, res *interfaces.ScoreResult) error {
	return f.Encode(w, res)
}

// Encode writes any value as indented JSON followed by a newline.
func (f *JSONFormatter) Encode(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
