package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// RoomStore captures the persistence operations needed by the service.
type RoomStore interface {
	UpsertRoom(ctx context.Context, room persistence.Room) error
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
}

// RoomService manages per-room timezone configuration and resolves the
// effective location used for rendering and schedule parsing.
type RoomService struct {
	rooms      RoomStore
	defaultLoc *time.Location
	logger     *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomStore, defaultLoc *time.Location) *RoomService {
	return NewRoomServiceWithLogger(rooms, defaultLoc, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomStore, defaultLoc *time.Location, logger *slog.Logger) *RoomService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &RoomService{rooms: rooms, defaultLoc: defaultLoc, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// Timezone reports a room's timezone override. Rooms exist lazily, so an
// unknown id is reported as a room with no override rather than an error.
func (s *RoomService) Timezone(ctx context.Context, roomID string) (Room, error) {
	if roomID == "" {
		return Room{}, ErrNotFound
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if errors.Is(err, persistence.ErrNotFound) {
		return Room{ID: roomID}, nil
	}
	if err != nil {
		return Room{}, fmt.Errorf("failed to load room: %w", err)
	}

	result := Room{ID: room.ID}
	if room.TZ != nil {
		result.Timezone = *room.TZ
	}
	return result, nil
}

// SetTimezone validates and stores a room's timezone override. An empty name
// clears the override so the room falls back to the process default.
func (s *RoomService) SetTimezone(ctx context.Context, roomID, timezone string) (room Room, err error) {
	logger := s.loggerWith(ctx, "SetTimezone", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set timezone", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room timezone updated", "timezone", timezone)
	}()

	if roomID == "" {
		err = ErrNotFound
		return
	}

	timezone = strings.TrimSpace(timezone)

	record := persistence.Room{ID: roomID}
	if timezone != "" {
		if _, lerr := time.LoadLocation(timezone); lerr != nil {
			vErr := &ValidationError{}
			vErr.add("timezone", fmt.Sprintf("%q is not a recognized IANA time zone", timezone))
			err = vErr
			return
		}
		record.TZ = &timezone
	}

	if err = s.rooms.UpsertRoom(ctx, record); err != nil {
		err = fmt.Errorf("failed to store room: %w", err)
		return
	}

	room = Room{ID: roomID, Timezone: timezone}
	return
}

// EffectiveLocation resolves the location used for a room's wall-clock
// rendering. Resolution is fail-soft: a missing room, a storage error, or an
// unresolvable zone name all fall back to the process default so one bad
// record cannot stall scheduling, with the condition logged for operators.
func (s *RoomService) EffectiveLocation(ctx context.Context, roomID string) *time.Location {
	logger := s.loggerWith(ctx, "EffectiveLocation", "room_id", roomID)

	room, err := s.rooms.GetRoom(ctx, roomID)
	if errors.Is(err, persistence.ErrNotFound) {
		return s.defaultLoc
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to load room, using default timezone", "error", err)
		return s.defaultLoc
	}

	if room.TZ == nil {
		return s.defaultLoc
	}

	loc, err := time.LoadLocation(*room.TZ)
	if err != nil {
		logger.WarnContext(ctx, "unresolvable room timezone, using default", "timezone", *room.TZ, "error", err)
		return s.defaultLoc
	}

	return loc
}
