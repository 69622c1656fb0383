package application

import "time"

// Room describes a room's configuration as reported to callers. Timezone is
// the IANA override, or empty when the room follows the process default.
type Room struct {
	ID       string
	Timezone string
}

// Prompt describes a prompt definition as reported to callers.
type Prompt struct {
	RoomID          string
	Name            string
	MessageTemplate string
	NextRun         *time.Time
	RunInterval     *time.Duration
	MaxRandomDelay  *time.Duration
}

// ScheduleInput carries the raw schedule expressions entered by an operator.
// At is required; Every and MaxRandomDelay may be empty to leave the prompt
// one-shot and jitter-free respectively.
type ScheduleInput struct {
	At             string
	Every          string
	MaxRandomDelay string
}

// HistoryRow is one flattened line of the outreach/response export. The
// response fields are zero values when the outreach drew no response.
type HistoryRow struct {
	RoomID          string
	OutreachEventID string
	PromptName      string
	SentAt          time.Time
	Message         string
	ResponseEventID string
	ReceivedAt      *time.Time
	ResponseMessage string
}

// ReplyEvent is an inbound chat message that replies to an earlier event.
type ReplyEvent struct {
	RoomID           string
	EventID          string
	RepliedToEventID string
	ReceivedAt       time.Time
	Body             string
}

// ReactionEvent is an inbound reaction attached to an earlier event.
type ReactionEvent struct {
	RoomID           string
	EventID          string
	ReactedToEventID string
	ReceivedAt       time.Time
	Symbol           string
}
