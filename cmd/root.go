// Package cmd implements the heft CLI commands using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/toyinlola/heft/pkg/cli"
	"github.com/toyinlola/heft/pkg/interfaces"
	"github.com/toyinlola/heft/pkg/report"
	"github.com/toyinlola/heft/pkg/scorer"
)

var (
	cfgFile string
	verbose bool
	format  string
	output  string
	noColor bool
)

// ErrRiskThreshold is returned when the risk level reaches the --fail-on level.
var ErrRiskThreshold = errors.New("risk level at or above the --fail-on threshold")

var rootCmd = &cobra.Command{
	Use:   "heft",
	Short: "Estimate how heavy a repository is to run",
	Long: `heft inspects a GitHub repository and estimates its hosting footprint.

It scores package.json dependencies against a catalog of known heavy
packages, profiles the repository tree, and writes a markdown report that
compares the result with a target server. The report can be narrated by an
LLM (Anthropic or any OpenAI-compatible endpoint) or rendered from a
deterministic template.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupColor()
		return setupLogging(cmd.ErrOrStderr())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: .heft.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format (terminal|markdown|json|yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func setupLogging(w io.Writer) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

// setupColor turns styling off for --no-color, NO_COLOR, file output or a non-TTY stdout.
func setupColor() {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if noColor || output != "" || os.Getenv("NO_COLOR") != "" || !tty {
		report.SetNoColor(true)
	}
}

// loadConfig reads the configuration named by --config.
func loadConfig() (*cli.Config, error) {
	cfg, err := cli.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded",
		"format", cfg.Report.Format,
		"ai.enabled", cfg.AI.Enabled,
		"ai.provider", cfg.AI.Provider,
		"history", cfg.History.Enabled,
	)
	return cfg, nil
}

// selectFormatter returns the formatter for --format, falling back to the configured one.
func selectFormatter(cfg *cli.Config) (report.Formatter, error) {
	name := format
	if name == "" {
		name = cfg.Report.Format
	}
	return report.NewFormatter(name)
}

// openOutput returns the --output file, or the command's stdout.
// The returned close function is always safe to call.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if output == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, file.Close, nil
}

// checkFailOn returns ErrRiskThreshold when level reaches failOn.
// An empty failOn never fails.
func checkFailOn(level interfaces.RiskLevel, failOn string) error {
	if failOn == "" {
		return nil
	}
	floor, ok := scorer.ParseRiskLevel(failOn)
	if !ok {
		return fmt.Errorf("invalid --fail-on level %q (want low, medium, high or critical)", failOn)
	}
	if scorer.AtLeast(level, floor) {
		return fmt.Errorf("%w: %s >= %s", ErrRiskThreshold, level, floor)
	}
	return nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
