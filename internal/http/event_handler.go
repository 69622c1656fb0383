package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/outreach-scheduler/internal/application"
)

type correlationService interface {
	OnReply(ctx context.Context, event application.ReplyEvent) error
	OnReaction(ctx context.Context, event application.ReactionEvent) error
}

// EventHandler accepts inbound chat events and feeds them to the correlator.
type EventHandler struct {
	service   correlationService
	responder responder
	logger    *slog.Logger
	now       func() time.Time
}

func NewEventHandler(service correlationService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base, now: time.Now}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// Receive dispatches one inbound event by type. Events that do not answer a
// tracked outreach are accepted and dropped; only malformed payloads and
// storage failures are reported as errors.
func (h *EventHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Receive", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Receive", "event_type", req.Type, "room_id", req.RoomID, "event_id", req.EventID)

	receivedAt := h.now().UTC()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("timestamp must be RFC 3339"))
			return
		}
		receivedAt = parsed.UTC()
	}

	var err error
	switch req.Type {
	case "reply":
		err = h.service.OnReply(r.Context(), application.ReplyEvent{
			RoomID:           req.RoomID,
			EventID:          req.EventID,
			RepliedToEventID: req.RepliedToEventID,
			ReceivedAt:       receivedAt,
			Body:             req.Body,
		})
	case "reaction":
		err = h.service.OnReaction(r.Context(), application.ReactionEvent{
			RoomID:           req.RoomID,
			EventID:          req.EventID,
			ReactedToEventID: req.ReactedToEventID,
			ReceivedAt:       receivedAt,
			Symbol:           req.Symbol,
		})
	default:
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New(`event type must be "reply" or "reaction"`))
		return
	}

	if err != nil {
		logger.ErrorContext(r.Context(), "event processing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, nil)
}

type eventRequest struct {
	Type             string `json:"type"`
	RoomID           string `json:"room_id"`
	EventID          string `json:"event_id"`
	SenderID         string `json:"sender_id,omitempty"`
	Timestamp        string `json:"timestamp,omitempty"`
	RepliedToEventID string `json:"replied_to_event_id,omitempty"`
	Body             string `json:"body,omitempty"`
	ReactedToEventID string `json:"reacted_to_event_id,omitempty"`
	Symbol           string `json:"symbol,omitempty"`
}
