package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("store: creating schema_version table: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("store: migration v1: %w", err)
		}
	}

	return nil
}

// SchemaVersion returns the applied schema version, zero for a fresh database.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("store: reading schema version: %w", err)
	}
	return version, nil
}

// migrateV1 creates the reports table and its indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id    TEXT NOT NULL UNIQUE,
			owner        TEXT NOT NULL,
			repo         TEXT NOT NULL,
			ref          TEXT,
			total_weight INTEGER NOT NULL,
			risk_level   TEXT NOT NULL,
			parse_status TEXT NOT NULL,
			size_mb      REAL NOT NULL,
			cpu_cores    INTEGER NOT NULL,
			ram_gb       INTEGER NOT NULL,
			narrated     BOOLEAN NOT NULL DEFAULT false,
			generated_at TEXT NOT NULL,
			markdown     TEXT NOT NULL,
			payload      TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reports_repo ON reports(owner, repo)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}

	return tx.Commit()
}
