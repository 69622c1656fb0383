package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// OutreachRepository implements persistence.OutreachRepository using SQLite
type OutreachRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewOutreachRepository creates a new SQLite outreach repository
func NewOutreachRepository(pool *ConnectionPool) *OutreachRepository {
	return &OutreachRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertOutreach records a sent message. A second insert for the same
// (room, event id) pair fails with persistence.ErrDuplicateOutreach and
// leaves the original row untouched, which is what makes retried sends safe.
func (r *OutreachRepository) InsertOutreach(ctx context.Context, outreach persistence.Outreach) error {
	if outreach.RoomID == "" || outreach.EventID == "" {
		return persistence.ErrNotFound
	}

	query := `
		INSERT INTO outreaches (room_id, event_id, prompt_name, timestamp_utc, message)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		outreach.RoomID,
		outreach.EventID,
		outreach.PromptName,
		formatTimestamp(outreach.SentAt),
		outreach.Message,
	)
	if err != nil {
		if r.mapper.IsUniqueViolation(err) {
			return persistence.ErrDuplicateOutreach
		}
		return r.mapper.MapError(err)
	}

	return nil
}

// GetOutreach retrieves an outreach by its (room, event id) composite key
func (r *OutreachRepository) GetOutreach(ctx context.Context, roomID, eventID string) (persistence.Outreach, error) {
	if roomID == "" || eventID == "" {
		return persistence.Outreach{}, persistence.ErrNotFound
	}

	query := `
		SELECT room_id, event_id, prompt_name, timestamp_utc, message
		FROM outreaches
		WHERE room_id = ? AND event_id = ?
	`

	var outreach persistence.Outreach
	var sentAt string

	err := r.helper.QueryRow(ctx, query, roomID, eventID).Scan(
		&outreach.RoomID,
		&outreach.EventID,
		&outreach.PromptName,
		&sentAt,
		&outreach.Message,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Outreach{}, persistence.ErrNotFound
		}
		return persistence.Outreach{}, r.mapper.MapError(err)
	}

	if outreach.SentAt, err = parseTimestamp(sentAt); err != nil {
		return persistence.Outreach{}, fmt.Errorf("failed to parse timestamp_utc: %w", err)
	}

	return outreach, nil
}

// ListOutreachHistory returns every outreach for a room outer-joined to its
// responses, ordered by outreach timestamp ascending and response timestamp
// ascending within each outreach. Responseless outreaches appear with an
// empty response group.
func (r *OutreachRepository) ListOutreachHistory(ctx context.Context, roomID string) ([]persistence.OutreachHistory, error) {
	query := `
		SELECT o.room_id, o.event_id, o.prompt_name, o.timestamp_utc, o.message,
			re.event_id, re.timestamp_utc, re.message
		FROM outreaches o
		LEFT JOIN responses re
			ON re.room_id = o.room_id AND re.outreach_event_id = o.event_id
		WHERE o.room_id = ?
		ORDER BY o.timestamp_utc ASC, o.event_id ASC, re.timestamp_utc ASC, re.event_id ASC
	`

	rows, err := r.helper.Query(ctx, query, roomID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var history []persistence.OutreachHistory

	for rows.Next() {
		var outreach persistence.Outreach
		var sentAt string
		var respEventID, respReceivedAt, respMessage sql.NullString

		if err := rows.Scan(
			&outreach.RoomID,
			&outreach.EventID,
			&outreach.PromptName,
			&sentAt,
			&outreach.Message,
			&respEventID,
			&respReceivedAt,
			&respMessage,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}

		if outreach.SentAt, err = parseTimestamp(sentAt); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp_utc: %w", err)
		}

		if len(history) == 0 || history[len(history)-1].Outreach.EventID != outreach.EventID {
			history = append(history, persistence.OutreachHistory{Outreach: outreach})
		}

		if respEventID.Valid {
			response := persistence.Response{
				RoomID:          outreach.RoomID,
				EventID:         respEventID.String,
				OutreachEventID: outreach.EventID,
				Message:         respMessage.String,
			}
			if response.ReceivedAt, err = parseTimestamp(respReceivedAt.String); err != nil {
				return nil, fmt.Errorf("failed to parse response timestamp_utc: %w", err)
			}
			last := len(history) - 1
			history[last].Responses = append(history[last].Responses, response)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return history, nil
}
