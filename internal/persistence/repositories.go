package persistence

import "context"
import "time"

// RoomRepository stores per-room settings.
type RoomRepository interface {
	UpsertRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
}

// PromptRepository stores prompt definitions and serves the scheduler's due
// query.
type PromptRepository interface {
	UpsertPrompt(ctx context.Context, prompt Prompt) error
	GetPrompt(ctx context.Context, roomID, name string) (Prompt, error)
	DeletePrompt(ctx context.Context, roomID, name string) error
	// ListPrompts returns every prompt for a room ordered by name.
	ListPrompts(ctx context.Context, roomID string) ([]Prompt, error)
	// ListDuePrompts returns every prompt across all rooms whose NextRun is
	// set and does not exceed cutoff, ordered by room then name.
	ListDuePrompts(ctx context.Context, cutoff time.Time) ([]Prompt, error)
}

// OutreachRepository stores sent-message records. Inserts are idempotency
// guarded: re-inserting an existing (room, event id) pair fails with
// ErrDuplicateOutreach and leaves the original row untouched.
type OutreachRepository interface {
	InsertOutreach(ctx context.Context, outreach Outreach) error
	GetOutreach(ctx context.Context, roomID, eventID string) (Outreach, error)
	// ListOutreachHistory returns every outreach for a room joined to its
	// responses, ordered by outreach timestamp then response timestamp.
	ListOutreachHistory(ctx context.Context, roomID string) ([]OutreachHistory, error)
}

// ResponseRepository stores correlated responses with the same duplicate-key
// policy as outreaches.
type ResponseRepository interface {
	InsertResponse(ctx context.Context, response Response) error
}
