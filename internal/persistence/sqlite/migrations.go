package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrationStep is a compiled-in schema upgrade. Steps run inside a single
// transaction each, in ascending version order, and are recorded in the
// schema_migrations bookkeeping table so restarts only apply what is pending.
type migrationStep struct {
	Version     int
	Description string
	Statements  []string
}

var migrationSteps = []migrationStep{
	{
		Version:     1,
		Description: "create core tables",
		Statements: []string{
			`CREATE TABLE rooms (
				id TEXT NOT NULL PRIMARY KEY,
				tz TEXT
			)`,
			`CREATE TABLE prompts (
				room_id TEXT NOT NULL,
				name TEXT NOT NULL,
				message_template TEXT NOT NULL,
				next_run_utc TEXT,
				run_interval_seconds INTEGER,
				max_random_delay_seconds INTEGER,
				PRIMARY KEY (room_id, name),
				FOREIGN KEY (room_id) REFERENCES rooms(id)
			)`,
			`CREATE TABLE outreaches (
				room_id TEXT NOT NULL,
				event_id TEXT NOT NULL,
				prompt_name TEXT NOT NULL,
				timestamp_utc TEXT NOT NULL,
				message TEXT NOT NULL,
				PRIMARY KEY (room_id, event_id)
			)`,
			`CREATE TABLE responses (
				room_id TEXT NOT NULL,
				event_id TEXT NOT NULL,
				outreach_event_id TEXT NOT NULL,
				timestamp_utc TEXT NOT NULL,
				message TEXT NOT NULL,
				PRIMARY KEY (room_id, event_id)
			)`,
			`CREATE INDEX idx_prompts_next_run ON prompts (next_run_utc)
				WHERE next_run_utc IS NOT NULL`,
			`CREATE INDEX idx_responses_outreach ON responses (room_id, outreach_event_id)`,
		},
	},
}

// Migrate applies every pending migration step. It is safe to call on every
// startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER NOT NULL PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := cp.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, step := range migrationSteps {
		if applied[step.Version] {
			continue
		}
		if err := cp.applyStep(ctx, step); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", step.Version, step.Description, err)
		}
	}

	return nil
}

func (cp *ConnectionPool) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	return applied, nil
}

func (cp *ConnectionPool) applyStep(ctx context.Context, step migrationStep) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, statement := range step.Statements {
			if _, err := tx.Exec(statement); err != nil {
				return err
			}
		}

		_, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			step.Version,
			step.Description,
			time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
}
