package persistence

import "time"

// Room represents a chat room known to the tracker. TZ holds an IANA zone
// name overriding the process-wide default, or nil when no override is set.
type Room struct {
	ID string
	TZ *string
}

// Prompt represents a configured recurring or one-shot message definition.
// A nil NextRun means the prompt is not scheduled; a nil RunInterval marks a
// one-shot prompt that disables itself after firing. MaxRandomDelay bounds
// the random delay added on top of RunInterval and has no effect without it.
type Prompt struct {
	RoomID          string
	Name            string
	MessageTemplate string
	NextRun         *time.Time
	RunInterval     *time.Duration
	MaxRandomDelay  *time.Duration
}

// Outreach records a concrete sent instance of a prompt. PromptName is a
// soft reference: the prompt may have been deleted or renamed since, and the
// history row intentionally survives that.
type Outreach struct {
	RoomID     string
	EventID    string
	PromptName string
	SentAt     time.Time
	Message    string
}

// Response records a reply or reaction correlated to an outreach.
// For replies Message holds the reply body; for reactions it holds the
// reaction symbol.
type Response struct {
	RoomID          string
	EventID         string
	OutreachEventID string
	ReceivedAt      time.Time
	Message         string
}

// OutreachHistory pairs an outreach with every response recorded against it,
// ordered by response timestamp ascending.
type OutreachHistory struct {
	Outreach  Outreach
	Responses []Response
}
