package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/toyinlola/heft/pkg/report"
	"github.com/toyinlola/heft/pkg/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [owner/repo]",
	Short: "List past reports, or show the latest report for a repository",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", store.DefaultListLimit, "maximum number of reports to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	db, err := store.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer db.Close() //nolint:errcheck

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer closeOut() //nolint:errcheck

	if len(args) == 1 {
		owner, repo, err := parseRepoArg(args[0])
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		rpt, err := db.Latest(ctx, owner, repo)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if rpt == nil {
			return fmt.Errorf("history: no reports recorded for %s/%s", owner, repo)
		}
		f, err := selectFormatter(cfg)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		return f.Format(w, rpt)
	}

	entries, err := db.List(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	f, err := selectFormatter(cfg)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if enc, ok := f.(report.Encoder); ok {
		return enc.Encode(w, entries)
	}
	return writeHistoryTable(w, entries)
}

func writeHistoryTable(w io.Writer, entries []store.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No reports recorded yet.")
		return err
	}

	tbl := report.NewTable("GENERATED", "REPOSITORY", "REF", "RISK", "WEIGHT", "SIZE MB", "SERVER", "SOURCE")
	for _, e := range entries {
		source := "template"
		if e.Narrated {
			source = "narrated"
		}
		tbl.AddRow(
			e.GeneratedAt.Local().Format("2006-01-02 15:04"),
			e.Owner+"/"+e.Repo,
			firstNonEmpty(e.Ref, "-"),
			fmt.Sprintf("%s %s", report.RiskBadge(e.RiskLevel), e.RiskLevel),
			fmt.Sprintf("%d", e.TotalWeight),
			fmt.Sprintf("%.2f", e.SizeMB),
			fmt.Sprintf("%dc/%dGB", e.ServerSpecs.CPUCores, e.ServerSpecs.RAMGB),
			source,
		)
	}
	_, err := io.WriteString(w, tbl.Render())
	return err
}
