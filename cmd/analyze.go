package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyinlola/heft/pkg/scorer"
)

var analyzeFailOn string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [package.json|-]",
	Short: "Score a local package.json against the heavy package catalog",
	Long: `Analyze scores a package.json without contacting GitHub.

Score the manifest in the current directory:
  heft analyze

Score a manifest from stdin:
  cat package.json | heft analyze -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on", "", "exit 1 when the risk level reaches this level (low|medium|high|critical)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := "package.json"
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	f, err := selectFormatter(cfg)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	text, err := readManifest(cmd, path)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	res := scorer.AnalyzeManifest(text)

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	defer closeOut() //nolint:errcheck

	if err := f.FormatScore(w, res); err != nil {
		return fmt.Errorf("analyze: writing score: %w", err)
	}

	return checkFailOn(res.Report.RiskLevel, firstNonEmpty(analyzeFailOn, cfg.Report.FailOn))
}

// readManifest reads path, or stdin when path is "-".
func readManifest(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}
