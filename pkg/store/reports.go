package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Entry is one stored report row.
type Entry struct {
	ID          int64                  `json:"id" yaml:"id"`
	ReportID    string                 `json:"reportId" yaml:"reportId"`
	Owner       string                 `json:"owner" yaml:"owner"`
	Repo        string                 `json:"repo" yaml:"repo"`
	Ref         string                 `json:"ref,omitempty" yaml:"ref,omitempty"`
	TotalWeight int                    `json:"totalWeight" yaml:"totalWeight"`
	RiskLevel   interfaces.RiskLevel   `json:"riskLevel" yaml:"riskLevel"`
	ParseStatus interfaces.ParseStatus `json:"parseStatus" yaml:"parseStatus"`
	SizeMB      float64                `json:"sizeMB" yaml:"sizeMB"`
	ServerSpecs interfaces.ServerSpecs `json:"serverSpecs" yaml:"serverSpecs"`
	Narrated    bool                   `json:"narrated" yaml:"narrated"`
	GeneratedAt time.Time              `json:"generatedAt" yaml:"generatedAt"`
}

// Save stores a generated report and returns its row ID.
func (db *DB) Save(ctx context.Context, rpt *interfaces.Report) (int64, error) {
	payload, err := json.Marshal(rpt)
	if err != nil {
		return 0, fmt.Errorf("store: encoding report: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO reports
		(report_id, owner, repo, ref, total_weight, risk_level, parse_status, size_mb,
		 cpu_cores, ram_gb, narrated, generated_at, markdown, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rpt.ID, rpt.Owner, rpt.Repo, rpt.Ref,
		rpt.Score.Report.TotalWeight, string(rpt.Score.Report.RiskLevel), string(rpt.Score.Status),
		rpt.Metadata.SizeMB, rpt.ServerSpecs.CPUCores, rpt.ServerSpecs.RAMGB, rpt.Narrated,
		rpt.Timestamp.UTC().Format(time.RFC3339Nano), rpt.Markdown, string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("store: saving report %s: %w", rpt.ID, err)
	}
	return result.LastInsertId()
}

const entryColumns = `id, report_id, owner, repo, ref, total_weight, risk_level, parse_status,
	size_mb, cpu_cores, ram_gb, narrated, generated_at`

// List returns up to limit entries, newest first.
func (db *DB) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM reports ORDER BY generated_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing reports: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Latest returns the newest stored report for owner/repo, or nil if none exists.
func (db *DB) Latest(ctx context.Context, owner, repo string) (*interfaces.Report, error) {
	var payload string
	err := db.conn.QueryRowContext(ctx,
		`SELECT payload FROM reports WHERE owner = ? AND repo = ?
		 ORDER BY generated_at DESC, id DESC LIMIT 1`, owner, repo).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading latest report for %s/%s: %w", owner, repo, err)
	}

	var rpt interfaces.Report
	if err := json.Unmarshal([]byte(payload), &rpt); err != nil {
		return nil, fmt.Errorf("store: decoding report: %w", err)
	}
	return &rpt, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e           Entry
		ref         sql.NullString
		risk        string
		status      string
		generatedAt string
	)
	err := row.Scan(&e.ID, &e.ReportID, &e.Owner, &e.Repo, &ref, &e.TotalWeight, &risk, &status,
		&e.SizeMB, &e.ServerSpecs.CPUCores, &e.ServerSpecs.RAMGB, &e.Narrated, &generatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: scanning report row: %w", err)
	}

	e.Ref = ref.String
	e.RiskLevel = interfaces.RiskLevel(risk)
	e.ParseStatus = interfaces.ParseStatus(status)
	e.GeneratedAt, _ = time.Parse(time.RFC3339Nano, generatedAt)
	return &e, nil
}
