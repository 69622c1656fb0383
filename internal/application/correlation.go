package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// OutreachLookup locates tracked outreaches during correlation.
type OutreachLookup interface {
	GetOutreach(ctx context.Context, roomID, eventID string) (persistence.Outreach, error)
}

// ResponseStore records correlated responses.
type ResponseStore interface {
	InsertResponse(ctx context.Context, response persistence.Response) error
}

// Correlator links inbound replies and reactions back to the outreach that
// prompted them. Only direct identifier linkage counts: a reply to a reply,
// or a reaction on a reply, is not traced to the original outreach.
type Correlator struct {
	outreaches OutreachLookup
	responses  ResponseStore
	logger     *slog.Logger
}

// NewCorrelator constructs a correlator with the provided dependencies.
func NewCorrelator(outreaches OutreachLookup, responses ResponseStore) *Correlator {
	return NewCorrelatorWithLogger(outreaches, responses, nil)
}

// NewCorrelatorWithLogger constructs a correlator with a specified logger.
func NewCorrelatorWithLogger(outreaches OutreachLookup, responses ResponseStore, logger *slog.Logger) *Correlator {
	return &Correlator{outreaches: outreaches, responses: responses, logger: defaultLogger(logger)}
}

func (c *Correlator) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, c.logger, "Correlator", operation, attrs...)
}

// OnReply records a response when the replied-to event is a tracked
// outreach in the same room. Replies to anything else are ignored, and
// duplicate delivery of the same event id is absorbed.
func (c *Correlator) OnReply(ctx context.Context, event ReplyEvent) error {
	return c.record(ctx, "OnReply", persistence.Response{
		RoomID:     event.RoomID,
		EventID:    event.EventID,
		ReceivedAt: event.ReceivedAt,
		Message:    event.Body,
	}, event.RepliedToEventID)
}

// OnReaction records a response carrying the reaction symbol when the
// reacted-to event is a tracked outreach in the same room.
func (c *Correlator) OnReaction(ctx context.Context, event ReactionEvent) error {
	return c.record(ctx, "OnReaction", persistence.Response{
		RoomID:     event.RoomID,
		EventID:    event.EventID,
		ReceivedAt: event.ReceivedAt,
		Message:    event.Symbol,
	}, event.ReactedToEventID)
}

func (c *Correlator) record(ctx context.Context, operation string, response persistence.Response, targetEventID string) error {
	logger := c.loggerWith(ctx, operation,
		"room_id", response.RoomID,
		"event_id", response.EventID,
		"target_event_id", targetEventID,
	)

	if response.RoomID == "" || response.EventID == "" || targetEventID == "" {
		logger.DebugContext(ctx, "event missing identifiers, ignored")
		return nil
	}

	outreach, err := c.outreaches.GetOutreach(ctx, response.RoomID, targetEventID)
	if errors.Is(err, persistence.ErrNotFound) {
		logger.DebugContext(ctx, "event does not target a tracked outreach, ignored")
		return nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to look up outreach", "error", err)
		return fmt.Errorf("failed to look up outreach: %w", err)
	}

	response.OutreachEventID = outreach.EventID

	err = c.responses.InsertResponse(ctx, response)
	if errors.Is(err, persistence.ErrDuplicateResponse) {
		// Transports may deliver the same event more than once.
		logger.DebugContext(ctx, "duplicate response delivery absorbed")
		return nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to record response", "error", err)
		return fmt.Errorf("failed to record response: %w", err)
	}

	logger.InfoContext(ctx, "response recorded", "prompt", outreach.PromptName)
	return nil
}
