// Package transport delivers rendered messages to the chat system over an
// outbound webhook.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// WebhookSender posts messages to a configured endpoint. The endpoint is
// expected to accept a JSON body {"room_id": ..., "text": ...} and reply
// with {"event_id": ...}; when the reply carries no event id a locally
// generated one is used so the outreach can still be recorded.
type WebhookSender struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewWebhookSender constructs a sender targeting the given endpoint URL.
func NewWebhookSender(endpoint string) *WebhookSender {
	return NewWebhookSenderWithLogger(endpoint, nil, nil)
}

// NewWebhookSenderWithLogger constructs a sender with a specified HTTP
// client and logger. A nil client gets a 10 second timeout default.
func NewWebhookSenderWithLogger(endpoint string, client *http.Client, logger *slog.Logger) *WebhookSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookSender{endpoint: endpoint, client: client, logger: logger}
}

type sendRequest struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

type sendResponse struct {
	EventID string `json:"event_id"`
}

// SendMessage delivers text to a room and returns the event identifier the
// chat system assigned to the message.
func (s *WebhookSender) SendMessage(ctx context.Context, roomID, text string) (string, error) {
	body, err := json.Marshal(sendRequest{RoomID: roomID, Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to deliver message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("send endpoint returned status %d", resp.StatusCode)
	}

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || decoded.EventID == "" {
		// The message went out; a missing id must not fail the send or
		// the outreach would be lost and retried as a duplicate.
		eventID := uuid.NewString()
		s.logger.WarnContext(ctx, "send endpoint returned no event id, generated one",
			"room_id", roomID, "event_id", eventID)
		return eventID, nil
	}

	return decoded.EventID, nil
}
