package sqlite

import (
	"context"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// ResponseRepository implements persistence.ResponseRepository using SQLite
type ResponseRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewResponseRepository creates a new SQLite response repository
func NewResponseRepository(pool *ConnectionPool) *ResponseRepository {
	return &ResponseRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertResponse records a correlated response. A second insert for the same
// (room, event id) pair fails with persistence.ErrDuplicateResponse so that
// duplicate event delivery can be absorbed upstream.
func (r *ResponseRepository) InsertResponse(ctx context.Context, response persistence.Response) error {
	if response.RoomID == "" || response.EventID == "" {
		return persistence.ErrNotFound
	}

	query := `
		INSERT INTO responses (room_id, event_id, outreach_event_id, timestamp_utc, message)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		response.RoomID,
		response.EventID,
		response.OutreachEventID,
		formatTimestamp(response.ReceivedAt),
		response.Message,
	)
	if err != nil {
		if r.mapper.IsUniqueViolation(err) {
			return persistence.ErrDuplicateResponse
		}
		return r.mapper.MapError(err)
	}

	return nil
}
