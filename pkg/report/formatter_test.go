package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/toyinlola/heft/pkg/interfaces"
)

func sampleReport() *interfaces.Report {
	return &interfaces.Report{
		ID:          "rpt-test",
		Owner:       "acme",
		Repo:        "app",
		Timestamp:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		ServerSpecs: interfaces.DefaultServerSpecs(),
		Score: interfaces.ScoreResult{
			Status: interfaces.ParseOK,
			Report: interfaces.ScoreReport{
				HeavyPackages: []string{"tensorflow", "sharp"},
				TotalWeight:   17,
				Categories:    map[string]int{"AI/ML": 10, "Image Processing": 7},
				RiskLevel:     interfaces.RiskHigh,
				Analysis:      interfaces.Capabilities{HasAI: true, HasImageProcessing: true, TotalDependencies: 4},
			},
		},
		Metadata: interfaces.RepoMetadata{TotalFiles: 40, SizeMB: 2.5},
		Markdown: "# Heaviness Report: acme/app\n",
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"markdown", "md", "JSON", "yaml", "yml", "terminal", "text"} {
		f, err := NewFormatter(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("html")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	score := decoded["score"].(map[string]any)["report"].(map[string]any)
	assert.Equal(t, "HIGH", score["riskLevel"])
	assert.Equal(t, float64(17), score["totalWeight"])
	assert.Equal(t, true, score["analysis"].(map[string]any)["hasAI"])
}

func TestYAMLFormatter_Score(t *testing.T) {
	var buf bytes.Buffer
	res := sampleReport().Score
	require.NoError(t, NewYAMLFormatter().FormatScore(&buf, &res))

	var decoded interfaces.ScoreResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, res, decoded)
	assert.Contains(t, buf.String(), "riskLevel: HIGH")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(&buf, sampleReport()))
	assert.Equal(t, "# Heaviness Report: acme/app\n", buf.String())

	rpt := sampleReport()
	rpt.Markdown = ""
	buf.Reset()
	require.NoError(t, NewMarkdownFormatter().Format(&buf, rpt))
	assert.Contains(t, buf.String(), "## Server Fit")
	assert.Contains(t, buf.String(), "| AI/ML | 10 |")
}

func TestMarkdownFormatter_Score(t *testing.T) {
	var buf bytes.Buffer
	res := &interfaces.ScoreResult{
		Status:     interfaces.ParseFailed,
		ParseError: "scorer: invalid manifest: EOF",
		Report:     interfaces.ScoreReport{RiskLevel: interfaces.RiskLow, Categories: map[string]int{}},
	}
	require.NoError(t, NewMarkdownFormatter().FormatScore(&buf, res))
	assert.Contains(t, buf.String(), "could not be parsed")
	assert.Contains(t, buf.String(), "| **Risk Level** | LOW |")
}

func TestTerminalFormatter_NoColor(t *testing.T) {
	SetNoColor(true)
	assert.True(t, IsNoColor())

	var buf bytes.Buffer
	require.NoError(t, NewTerminalFormatter().Format(&buf, sampleReport()))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "heft report: acme/app")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "tensorflow, sharp")
	assert.Contains(t, out, "AI/ML, image processing")
	assert.Contains(t, out, "Report: rpt-test | template")

	buf.Reset()
	res := sampleReport().Score
	require.NoError(t, NewTerminalFormatter().FormatScore(&buf, &res))
	assert.Contains(t, buf.String(), "Total weight")
}

func TestNewFormatter_Encoders(t *testing.T) {
	entries := []map[string]int{{"weight": 27}}

	for format, want := range map[string]string{
		FormatJSON: "[\n  {\n    \"weight\": 27\n  }\n]\n",
		FormatYAML: "- weight: 27\n",
	} {
		f, err := NewFormatter(format)
		require.NoError(t, err)
		enc, ok := f.(Encoder)
		require.True(t, ok, format)

		var buf bytes.Buffer
		require.NoError(t, enc.Encode(&buf, entries))
		assert.Equal(t, want, buf.String(), format)
	}

	for _, format := range []string{FormatMarkdown, FormatTerminal} {
		f, err := NewFormatter(format)
		require.NoError(t, err)
		_, ok := f.(Encoder)
		assert.False(t, ok, format)
	}
}
