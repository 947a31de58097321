package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyinlola/heft/pkg/auth"
	"github.com/toyinlola/heft/pkg/cli"
	"github.com/toyinlola/heft/pkg/interfaces"
	"github.com/toyinlola/heft/pkg/report"
)

var (
	ciComment bool
	ciFailOn  string
)

var ciCmd = &cobra.Command{
	Use:   "ci [owner/repo]",
	Short: "Report on the repository of the current CI run",
	Long: `CI mode detects the repository and commit from GitHub Actions, generates
the heaviness report for that commit, prints it to stdout, and optionally posts
it as a pull request comment.

Outside GitHub Actions, pass the repository explicitly.

Exit code is determined by --fail-on (default: critical):
  --fail-on critical → exit 1 only on CRITICAL
  --fail-on high     → exit 1 on HIGH or CRITICAL`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCI,
}

func init() {
	ciCmd.Flags().BoolVar(&ciComment, "comment", false, "post the report as a pull request comment")
	ciCmd.Flags().StringVar(&ciFailOn, "fail-on", "", "exit 1 when the risk level reaches this level (default: critical)")
	rootCmd.AddCommand(ciCmd)
}

// ciEnvironment is what heft could learn about the surrounding CI run.
type ciEnvironment struct {
	Platform string
	Owner    string
	Repo     string
	SHA      string
	APIURL   string

	// PRNumber is zero outside pull_request events.
	PRNumber int
}

// detectCIEnvironment reads the run metadata through getenv.
func detectCIEnvironment(getenv func(string) string) *ciEnvironment {
	if getenv("GITHUB_ACTIONS") != "true" {
		return &ciEnvironment{Platform: "generic"}
	}

	env := &ciEnvironment{
		Platform: "github",
		SHA:      getenv("GITHUB_SHA"),
		APIURL:   getenv("GITHUB_API_URL"),
	}
	env.Owner, env.Repo, _ = strings.Cut(getenv("GITHUB_REPOSITORY"), "/")

	// refs/pull/<n>/merge
	if rest, ok := strings.CutPrefix(getenv("GITHUB_REF"), "refs/pull/"); ok {
		num, _, _ := strings.Cut(rest, "/")
		env.PRNumber, _ = strconv.Atoi(num)
	}
	return env
}

func runCI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	env := detectCIEnvironment(os.Getenv)
	if len(args) == 1 {
		if env.Owner, env.Repo, err = parseRepoArg(args[0]); err != nil {
			return fmt.Errorf("ci: %w", err)
		}
	}
	if env.Owner == "" || env.Repo == "" {
		return fmt.Errorf("ci: could not detect the repository, pass <owner>/<repo>")
	}

	slog.Info("CI environment detected",
		"platform", env.Platform,
		"pr", env.PRNumber,
		"owner", env.Owner,
		"repo", env.Repo,
		"sha", env.SHA,
	)

	if env.APIURL != "" {
		cfg.GitHub.APIURL = env.APIURL
	}

	token, source := auth.NewStore(cli.HomeDir()).Resolve("")
	slog.Debug("github token resolved", "source", source)

	gen, provider, err := buildGenerator(ctx, cfg, token, true)
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	specs := interfaces.ServerSpecs{CPUCores: cfg.Server.CPU, RAMGB: cfg.Server.RAM}
	rpt, err := gen.Generate(ctx, report.Request{
		Owner:       env.Owner,
		Repo:        env.Repo,
		Ref:         firstNonEmpty(env.SHA, cfg.GitHub.Ref),
		ServerSpecs: &specs,
	})
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	f, err := selectFormatter(cfg)
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}
	if err := f.Format(cmd.OutOrStdout(), rpt); err != nil {
		return fmt.Errorf("ci: writing report: %w", err)
	}

	if ciComment && env.PRNumber > 0 {
		postCIComment(ctx, provider, env, rpt)
	}

	return checkFailOn(rpt.Score.Report.RiskLevel, firstNonEmpty(ciFailOn, cfg.Report.FailOn, "critical"))
}

// commentPoster posts a comment on an issue or pull request.
type commentPoster interface {
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}

// postCIComment comments the report on the pull request. A failed post
// is logged and never fails the run.
func postCIComment(ctx context.Context, poster commentPoster, env *ciEnvironment, rpt *interfaces.Report) {
	body, err := ciCommentBody(rpt)
	if err == nil {
		err = poster.PostComment(ctx, env.Owner, env.Repo, env.PRNumber, body)
	}
	if err != nil {
		slog.Error("ci: pull request comment not posted", "pr", env.PRNumber, "error", err)
		return
	}
	slog.Info("pull request comment posted", "pr", env.PRNumber)
}

// ciCommentBody is a one-line verdict followed by the report markdown.
func ciCommentBody(rpt *interfaces.Report) (string, error) {
	score := rpt.Score.Report

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s **heft: %s (weight %d)**\n\n", report.RiskBadge(score.RiskLevel), score.RiskLevel, score.TotalWeight)
	if err := report.NewMarkdownFormatter().Format(&buf, rpt); err != nil {
		return "", err
	}
	return buf.String(), nil
}
