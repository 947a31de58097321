package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyinlola/heft/pkg/ai"
	"github.com/toyinlola/heft/pkg/ai/providers"
	"github.com/toyinlola/heft/pkg/auth"
	"github.com/toyinlola/heft/pkg/cli"
	"github.com/toyinlola/heft/pkg/interfaces"
	"github.com/toyinlola/heft/pkg/report"
	"github.com/toyinlola/heft/pkg/store"
	"github.com/toyinlola/heft/pkg/vcs"
)

var (
	reportRef       string
	reportCPU       int
	reportRAM       int
	reportToken     string
	reportNoHistory bool
	reportNoAI      bool
	reportFailOn    string
)

var reportCmd = &cobra.Command{
	Use:   "report <owner>/<repo>",
	Short: "Generate a heaviness report for a GitHub repository",
	Long: `Report collects a repository from GitHub, scores its dependencies and
writes a markdown report comparing the footprint with a target server.

  heft report vercel/next.js
  heft report acme/api --ref v2.1.0 --cpu 4 --ram 8 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRef, "ref", "", "branch, tag or commit to inspect (default: repository default branch)")
	reportCmd.Flags().IntVar(&reportCPU, "cpu", 0, "target server CPU cores (default from config, 2)")
	reportCmd.Flags().IntVar(&reportRAM, "ram", 0, "target server RAM in GB (default from config, 4)")
	reportCmd.Flags().StringVar(&reportToken, "token", "", "GitHub token (default: GITHUB_TOKEN, then keychain)")
	reportCmd.Flags().BoolVar(&reportNoHistory, "no-history", false, "do not record the report in the local history")
	reportCmd.Flags().BoolVar(&reportNoAI, "no-ai", false, "always render the deterministic template")
	reportCmd.Flags().StringVar(&reportFailOn, "fail-on", "", "exit 1 when the risk level reaches this level (low|medium|high|critical)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	owner, repo, err := parseRepoArg(args[0])
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	f, err := selectFormatter(cfg)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	token, source := auth.NewStore(cli.HomeDir()).Resolve(reportToken)
	slog.Debug("github token resolved", "source", source)

	gen, _, err := buildGenerator(ctx, cfg, token, !reportNoAI)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	specs := serverSpecs(cmd, cfg)
	rpt, err := gen.Generate(ctx, report.Request{
		Owner:       owner,
		Repo:        repo,
		Ref:         firstNonEmpty(reportRef, cfg.GitHub.Ref),
		ServerSpecs: &specs,
	})
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer closeOut() //nolint:errcheck

	if err := f.Format(w, rpt); err != nil {
		return fmt.Errorf("report: writing report: %w", err)
	}

	if cfg.History.Enabled && !reportNoHistory {
		recordHistory(ctx, cfg.History.Path, rpt)
	}

	return checkFailOn(rpt.Score.Report.RiskLevel, firstNonEmpty(reportFailOn, cfg.Report.FailOn))
}

// buildGenerator wires the GitHub provider, the optional narrator and the
// report options from configuration.
func buildGenerator(ctx context.Context, cfg *cli.Config, token string, allowAI bool) (*report.Generator, *vcs.GitHubProvider, error) {
	provider, err := vcs.NewGitHubProvider(ctx, token, cfg.GitHub.APIURL)
	if err != nil {
		return nil, nil, err
	}

	opts := []report.Option{
		report.WithFallback(cfg.Report.Fallback),
		report.WithTopFileTypes(cfg.Report.TopFileTypes),
		report.WithContextBudget(cfg.Report.ContextBudget),
	}

	if allowAI && cfg.AI.Enabled {
		if narrator := buildNarrator(ctx, cfg.AI); narrator != nil {
			opts = append(opts, report.WithNarrator(narrator))
		}
	}

	collector := report.NewCollector(provider, cfg.Report.CommitLimit)
	return report.NewGenerator(collector, opts...), provider, nil
}

// buildNarrator returns nil when the provider is misconfigured or unreachable,
// which leaves the report on the deterministic template.
func buildNarrator(ctx context.Context, aiCfg cli.AIConfig) *ai.Narrator {
	llm, err := providers.New(ai.ProviderConfig{
		Endpoint: aiCfg.Endpoint,
		Model:    aiCfg.Model,
		APIKey:   aiCfg.ResolveAPIKey(),
		Type:     ai.ProviderType(aiCfg.Provider),
	}, aiCfg.Timeout)
	if err != nil {
		slog.Warn("narrator disabled", "error", err)
		return nil
	}

	narrator := ai.NewNarrator(llm,
		ai.WithMaxTokens(aiCfg.MaxTokens),
		ai.WithTemperature(aiCfg.Temperature),
	)
	if !narrator.Available(ctx) {
		slog.Warn("narrator provider not available, using deterministic report",
			"provider", aiCfg.Provider, "endpoint", aiCfg.Endpoint)
		return nil
	}

	slog.Info("narrator enabled", "provider", aiCfg.Provider, "model", aiCfg.Model)
	return narrator
}

// serverSpecs takes --cpu/--ram when set, the configured server otherwise.
// Validation happens in the generator so negative values are reported there.
func serverSpecs(cmd *cobra.Command, cfg *cli.Config) interfaces.ServerSpecs {
	specs := interfaces.ServerSpecs{CPUCores: cfg.Server.CPU, RAMGB: cfg.Server.RAM}
	if cmd.Flags().Changed("cpu") {
		specs.CPUCores = reportCPU
	}
	if cmd.Flags().Changed("ram") {
		specs.RAMGB = reportRAM
	}
	return specs
}

// recordHistory stores the report; history problems never fail the command.
func recordHistory(ctx context.Context, path string, rpt *interfaces.Report) {
	db, err := store.Open(path)
	if err != nil {
		slog.Warn("history unavailable", "path", path, "error", err)
		return
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.Save(ctx, rpt); err != nil {
		slog.Warn("recording report history", "error", err)
		return
	}
	slog.Debug("report recorded", "id", rpt.ID, "path", path)
}

// parseRepoArg accepts owner/repo, github.com/owner/repo or a full GitHub URL.
func parseRepoArg(arg string) (string, string, error) {
	s := strings.TrimSpace(arg)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("expected <owner>/<repo>, got %q", arg)
	}
	return owner, repo, nil
}
