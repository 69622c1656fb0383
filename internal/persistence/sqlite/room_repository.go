package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// UpsertRoom inserts the room or replaces its timezone override when the id
// already exists.
func (r *RoomRepository) UpsertRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		INSERT INTO rooms (id, tz) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET tz = excluded.tz
	`

	var tz sql.NullString
	if room.TZ != nil {
		tz = sql.NullString{String: *room.TZ, Valid: true}
	}

	if _, err := r.helper.Exec(ctx, query, room.ID, tz); err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetRoom retrieves a room by ID from the database
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	query := `SELECT id, tz FROM rooms WHERE id = ?`

	var room persistence.Room
	var tz sql.NullString

	err := r.helper.QueryRow(ctx, query, id).Scan(&room.ID, &tz)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, r.mapper.MapError(err)
	}

	if tz.Valid {
		room.TZ = &tz.String
	}

	return room, nil
}
