package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is re-run on each open.
func Migrate(db *sql.DB) error {
	if err := runMigrations(db); err != nil {
		return err
	}
	rebuilt, err := dropCycleUnique(db)
	if err != nil {
		return err
	}
	if rebuilt {
		// Indexes went away with the old table.
		return runMigrations(db)
	}
	return nil
}

func runMigrations(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// dropCycleUnique rebuilds an applications table created with
// UNIQUE(festival_id, cycle_year). Cycle years follow the configured cutoff
// month, so the ledger deduplicates on application dates instead.
func dropCycleUnique(db *sql.DB) (bool, error) {
	var ddl string
	err := db.QueryRow(`SELECT sql FROM sqlite_master WHERE type='table' AND name='applications'`).Scan(&ddl)
	if err != nil {
		return false, fmt.Errorf("reading applications schema: %w", err)
	}
	if !strings.Contains(ddl, "UNIQUE(festival_id, cycle_year)") {
		return false, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning applications rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		strings.Replace(applicationsTable, "applications (", "applications_rebuild (", 1),
		`INSERT INTO applications_rebuild SELECT * FROM applications`,
		`DROP TABLE applications`,
		`ALTER TABLE applications_rebuild RENAME TO applications`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return false, fmt.Errorf("rebuilding applications: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing applications rebuild: %w", err)
	}
	return true, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS festivals (
		id                       TEXT PRIMARY KEY,
		name                     TEXT NOT NULL CHECK(length(trim(name)) > 0),
		country                  TEXT NOT NULL DEFAULT '',
		town                     TEXT NOT NULL DEFAULT '',
		festival_type            TEXT NOT NULL DEFAULT 'STREET'
		                         CHECK(festival_type IN ('STREET','PUPPET','JUGGLING_CONVENTION','CIRCUS','MUSIC','THEATRE','DANCE','OTHER')),
		website_url              TEXT NOT NULL DEFAULT '',
		contact_person           TEXT NOT NULL DEFAULT '',
		contact_email            TEXT NOT NULL DEFAULT '',
		start_date               TEXT,
		end_date                 TEXT,
		approximate_date         TEXT NOT NULL DEFAULT '',
		application_window_start TEXT,
		application_window_end   TEXT,
		application_type         TEXT NOT NULL DEFAULT 'UNKNOWN'
		                         CHECK(application_type IN ('EMAIL','FORM','INVITATION_ONLY','OTHER','UNKNOWN')),
		description              TEXT NOT NULL DEFAULT '',
		comments                 TEXT NOT NULL DEFAULT '',
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_festivals_name ON festivals(name COLLATE NOCASE)`,
	`CREATE INDEX IF NOT EXISTS idx_festivals_country ON festivals(country)`,
	`CREATE INDEX IF NOT EXISTS idx_festivals_start ON festivals(start_date)`,

	applicationsTable,

	`CREATE INDEX IF NOT EXISTS idx_applications_festival ON applications(festival_id)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_cycle ON applications(cycle_year)`,
}

const applicationsTable = `CREATE TABLE IF NOT EXISTS applications (
		id                   TEXT PRIMARY KEY,
		festival_id          TEXT NOT NULL REFERENCES festivals(id) ON DELETE CASCADE,
		cycle_year           INTEGER NOT NULL CHECK(cycle_year > 0),
		application_date     TEXT NOT NULL,
		method               TEXT NOT NULL
		                     CHECK(method IN ('EMAIL','FORM','OTHER','UNKNOWN')),
		status               TEXT NOT NULL DEFAULT 'DRAFT'
		                     CHECK(status IN ('DRAFT','APPLIED','IN_DISCUSSION','REJECTED','IGNORED','ACCEPTED','POSTPONED','CANCELLED','OTHER')),
		subject              TEXT NOT NULL DEFAULT '',
		body                 TEXT NOT NULL DEFAULT '',
		attachments_sent     TEXT NOT NULL DEFAULT '[]',
		attachments_received TEXT NOT NULL DEFAULT '[]',
		answer_received      INTEGER NOT NULL DEFAULT 0,
		answer_date          TEXT,
		follow_up_date       TEXT,
		contract_signed      INTEGER NOT NULL DEFAULT 0,
		payment_received     INTEGER NOT NULL DEFAULT 0,
		payment_amount       REAL,
		comments             TEXT NOT NULL DEFAULT '',
		last_error           TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`
