package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// PromptRepository implements persistence.PromptRepository using SQLite
type PromptRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewPromptRepository creates a new SQLite prompt repository
func NewPromptRepository(pool *ConnectionPool) *PromptRepository {
	return &PromptRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// UpsertPrompt inserts or replaces a prompt keyed by (room, name). The room
// row is created on first reference so configuration never has to create
// rooms explicitly.
func (r *PromptRepository) UpsertPrompt(ctx context.Context, prompt persistence.Prompt) error {
	if prompt.RoomID == "" || prompt.Name == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx,
			"INSERT INTO rooms (id) VALUES (?) ON CONFLICT (id) DO NOTHING",
			prompt.RoomID,
		); err != nil {
			return r.mapper.MapError(err)
		}

		query := `
			INSERT INTO prompts (room_id, name, message_template, next_run_utc, run_interval_seconds, max_random_delay_seconds)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (room_id, name) DO UPDATE SET
				message_template = excluded.message_template,
				next_run_utc = excluded.next_run_utc,
				run_interval_seconds = excluded.run_interval_seconds,
				max_random_delay_seconds = excluded.max_random_delay_seconds
		`

		if _, err := r.helper.ExecTx(tx, query,
			prompt.RoomID,
			prompt.Name,
			prompt.MessageTemplate,
			nullableTimestamp(prompt.NextRun),
			nullableSeconds(prompt.RunInterval),
			nullableSeconds(prompt.MaxRandomDelay),
		); err != nil {
			return r.mapper.MapError(err)
		}

		return nil
	})
}

// GetPrompt retrieves a prompt by its (room, name) composite key
func (r *PromptRepository) GetPrompt(ctx context.Context, roomID, name string) (persistence.Prompt, error) {
	if roomID == "" || name == "" {
		return persistence.Prompt{}, persistence.ErrNotFound
	}

	query := `
		SELECT room_id, name, message_template, next_run_utc, run_interval_seconds, max_random_delay_seconds
		FROM prompts
		WHERE room_id = ? AND name = ?
	`

	prompt, err := scanPrompt(r.helper.QueryRow(ctx, query, roomID, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Prompt{}, persistence.ErrNotFound
		}
		return persistence.Prompt{}, r.mapper.MapError(err)
	}

	return prompt, nil
}

// DeletePrompt removes a prompt. Outreach history referencing the prompt by
// name is left in place.
func (r *PromptRepository) DeletePrompt(ctx context.Context, roomID, name string) error {
	if roomID == "" || name == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM prompts WHERE room_id = ? AND name = ?", roomID, name)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// ListPrompts returns all prompts for a room ordered by name
func (r *PromptRepository) ListPrompts(ctx context.Context, roomID string) ([]persistence.Prompt, error) {
	query := `
		SELECT room_id, name, message_template, next_run_utc, run_interval_seconds, max_random_delay_seconds
		FROM prompts
		WHERE room_id = ?
		ORDER BY name ASC
	`

	rows, err := r.helper.Query(ctx, query, roomID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectPrompts(rows, r.mapper)
}

// ListDuePrompts returns all prompts, across every room, whose next run is
// set and does not exceed the cutoff. Ordering by room then name keeps the
// due set deterministic for a given cutoff.
func (r *PromptRepository) ListDuePrompts(ctx context.Context, cutoff time.Time) ([]persistence.Prompt, error) {
	query := `
		SELECT room_id, name, message_template, next_run_utc, run_interval_seconds, max_random_delay_seconds
		FROM prompts
		WHERE next_run_utc IS NOT NULL AND next_run_utc <= ?
		ORDER BY room_id ASC, name ASC
	`

	rows, err := r.helper.Query(ctx, query, formatTimestamp(cutoff))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectPrompts(rows, r.mapper)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrompt(row rowScanner) (persistence.Prompt, error) {
	var prompt persistence.Prompt
	var nextRun sql.NullString
	var intervalSec, delaySec sql.NullInt64

	if err := row.Scan(
		&prompt.RoomID,
		&prompt.Name,
		&prompt.MessageTemplate,
		&nextRun,
		&intervalSec,
		&delaySec,
	); err != nil {
		return persistence.Prompt{}, err
	}

	if nextRun.Valid {
		parsed, err := parseTimestamp(nextRun.String)
		if err != nil {
			return persistence.Prompt{}, fmt.Errorf("failed to parse next_run_utc: %w", err)
		}
		prompt.NextRun = &parsed
	}
	if intervalSec.Valid {
		interval := time.Duration(intervalSec.Int64) * time.Second
		prompt.RunInterval = &interval
	}
	if delaySec.Valid {
		delay := time.Duration(delaySec.Int64) * time.Second
		prompt.MaxRandomDelay = &delay
	}

	return prompt, nil
}

func collectPrompts(rows *sql.Rows, mapper *ErrorMapper) ([]persistence.Prompt, error) {
	var prompts []persistence.Prompt

	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, mapper.MapError(err)
		}
		prompts = append(prompts, prompt)
	}

	if err := rows.Err(); err != nil {
		return nil, mapper.MapError(err)
	}

	return prompts, nil
}

func nullableSeconds(d *time.Duration) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(d.Seconds()), Valid: true}
}

func nullableTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

// formatTimestamp renders a timestamp as an RFC 3339 UTC string. The fixed
// width and zone make lexical order match chronological order, which the due
// query relies on.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
