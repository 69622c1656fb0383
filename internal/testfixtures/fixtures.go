package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/outreach-scheduler/internal/persistence"
)

var (
	roomCounter     uint64
	promptCounter   uint64
	outreachCounter uint64
	responseCounter uint64
)

var referenceTime = time.Date(2024, time.May, 17, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures the generated room fixture.
type RoomOption func(*persistence.Room)

// WithTimezone sets the room's timezone override.
func WithTimezone(tz string) RoomOption {
	return func(room *persistence.Room) {
		room.TZ = &tz
	}
}

// NewRoomFixture returns a deterministic room record with optional overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := persistence.Room{
		ID: fmt.Sprintf("!room-%03d:example.com", idx),
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// ---------------------------- Prompt fixtures ----------------------------

// PromptOption configures the generated prompt fixture.
type PromptOption func(*persistence.Prompt)

// WithRoom assigns the prompt to a specific room.
func WithRoom(roomID string) PromptOption {
	return func(prompt *persistence.Prompt) {
		prompt.RoomID = roomID
	}
}

// WithNextRun schedules the prompt's next firing.
func WithNextRun(at time.Time) PromptOption {
	return func(prompt *persistence.Prompt) {
		prompt.NextRun = &at
	}
}

// WithInterval makes the prompt recurring.
func WithInterval(interval time.Duration) PromptOption {
	return func(prompt *persistence.Prompt) {
		prompt.RunInterval = &interval
	}
}

// WithMaxRandomDelay bounds the prompt's firing jitter.
func WithMaxRandomDelay(delay time.Duration) PromptOption {
	return func(prompt *persistence.Prompt) {
		prompt.MaxRandomDelay = &delay
	}
}

// NewPromptFixture returns a deterministic prompt record with optional
// overrides. Without options the prompt is unscheduled.
func NewPromptFixture(opts ...PromptOption) persistence.Prompt {
	idx := atomic.AddUint64(&promptCounter, 1)
	prompt := persistence.Prompt{
		RoomID:          fmt.Sprintf("!room-%03d:example.com", idx),
		Name:            fmt.Sprintf("prompt-%03d", idx),
		MessageTemplate: fmt.Sprintf("message %03d on $(date)", idx),
	}
	for _, opt := range opts {
		opt(&prompt)
	}
	return prompt
}

// --------------------------- Outreach fixtures ---------------------------

// OutreachOption configures the generated outreach fixture.
type OutreachOption func(*persistence.Outreach)

// OutreachInRoom places the outreach in a specific room.
func OutreachInRoom(roomID string) OutreachOption {
	return func(outreach *persistence.Outreach) {
		outreach.RoomID = roomID
	}
}

// OutreachSentAt sets the send timestamp.
func OutreachSentAt(at time.Time) OutreachOption {
	return func(outreach *persistence.Outreach) {
		outreach.SentAt = at
	}
}

// NewOutreachFixture returns a deterministic outreach record with optional
// overrides.
func NewOutreachFixture(opts ...OutreachOption) persistence.Outreach {
	idx := atomic.AddUint64(&outreachCounter, 1)
	outreach := persistence.Outreach{
		RoomID:     fmt.Sprintf("!room-%03d:example.com", idx),
		EventID:    fmt.Sprintf("$outreach-%03d", idx),
		PromptName: fmt.Sprintf("prompt-%03d", idx),
		SentAt:     referenceTime.Add(time.Duration(idx) * time.Minute),
		Message:    fmt.Sprintf("outreach message %03d", idx),
	}
	for _, opt := range opts {
		opt(&outreach)
	}
	return outreach
}

// --------------------------- Response fixtures ---------------------------

// NewResponseFixture returns a deterministic response answering the given
// outreach.
func NewResponseFixture(outreach persistence.Outreach) persistence.Response {
	idx := atomic.AddUint64(&responseCounter, 1)
	return persistence.Response{
		RoomID:          outreach.RoomID,
		EventID:         fmt.Sprintf("$response-%03d", idx),
		OutreachEventID: outreach.EventID,
		ReceivedAt:      outreach.SentAt.Add(time.Duration(idx) * time.Minute),
		Message:         fmt.Sprintf("response %03d", idx),
	}
}
