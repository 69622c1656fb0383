package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/outreach-scheduler/internal/persistence"
)

var historyBase = time.Date(2024, time.May, 17, 9, 0, 0, 0, time.UTC)

func TestOutreachRepository_InsertOutreach_Duplicate(t *testing.T) {
	repo := NewOutreachRepository(setupPool(t))
	ctx := context.Background()

	outreach := persistence.Outreach{
		RoomID:     "!a:example.com",
		EventID:    "$evt1",
		PromptName: "mood",
		SentAt:     historyBase,
		Message:    "How are you feeling?",
	}

	if err := repo.InsertOutreach(ctx, outreach); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}

	outreach.Message = "changed"
	if err := repo.InsertOutreach(ctx, outreach); !errors.Is(err, persistence.ErrDuplicateOutreach) {
		t.Fatalf("expected ErrDuplicateOutreach, got %v", err)
	}

	// The original row must be untouched.
	got, err := repo.GetOutreach(ctx, "!a:example.com", "$evt1")
	if err != nil {
		t.Fatalf("GetOutreach failed: %v", err)
	}
	if got.Message != "How are you feeling?" {
		t.Errorf("expected original message preserved, got %q", got.Message)
	}
	if !got.SentAt.Equal(historyBase) {
		t.Errorf("expected sent at %v, got %v", historyBase, got.SentAt)
	}
}

func TestOutreachRepository_GetOutreach_NotFound(t *testing.T) {
	repo := NewOutreachRepository(setupPool(t))

	_, err := repo.GetOutreach(context.Background(), "!a:example.com", "$missing")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResponseRepository_InsertResponse_Duplicate(t *testing.T) {
	pool := setupPool(t)
	outreaches := NewOutreachRepository(pool)
	responses := NewResponseRepository(pool)
	ctx := context.Background()

	outreach := persistence.Outreach{
		RoomID: "!a:example.com", EventID: "$evt1", PromptName: "mood",
		SentAt: historyBase, Message: "m",
	}
	if err := outreaches.InsertOutreach(ctx, outreach); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}

	response := persistence.Response{
		RoomID:          "!a:example.com",
		EventID:         "$reply1",
		OutreachEventID: "$evt1",
		ReceivedAt:      historyBase.Add(time.Minute),
		Message:         "fine",
	}
	if err := responses.InsertResponse(ctx, response); err != nil {
		t.Fatalf("InsertResponse failed: %v", err)
	}
	if err := responses.InsertResponse(ctx, response); !errors.Is(err, persistence.ErrDuplicateResponse) {
		t.Fatalf("expected ErrDuplicateResponse, got %v", err)
	}
}

func TestOutreachRepository_ListOutreachHistory(t *testing.T) {
	pool := setupPool(t)
	outreaches := NewOutreachRepository(pool)
	responses := NewResponseRepository(pool)
	ctx := context.Background()

	insertOutreach := func(eventID string, sentAt time.Time) {
		t.Helper()
		err := outreaches.InsertOutreach(ctx, persistence.Outreach{
			RoomID: "!a:example.com", EventID: eventID, PromptName: "mood",
			SentAt: sentAt, Message: "msg " + eventID,
		})
		if err != nil {
			t.Fatalf("InsertOutreach(%s) failed: %v", eventID, err)
		}
	}
	insertResponse := func(eventID, outreachEventID string, receivedAt time.Time, text string) {
		t.Helper()
		err := responses.InsertResponse(ctx, persistence.Response{
			RoomID: "!a:example.com", EventID: eventID, OutreachEventID: outreachEventID,
			ReceivedAt: receivedAt, Message: text,
		})
		if err != nil {
			t.Fatalf("InsertResponse(%s) failed: %v", eventID, err)
		}
	}

	// Inserted out of chronological order on purpose.
	insertOutreach("$late", historyBase.Add(2*time.Hour))
	insertOutreach("$early", historyBase)
	insertResponse("$r2", "$early", historyBase.Add(20*time.Minute), "second")
	insertResponse("$r1", "$early", historyBase.Add(10*time.Minute), "first")

	// A response in another room must not leak in.
	other := persistence.Outreach{RoomID: "!b:example.com", EventID: "$evt", PromptName: "p", SentAt: historyBase, Message: "m"}
	if err := outreaches.InsertOutreach(ctx, other); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}

	history, err := outreaches.ListOutreachHistory(ctx, "!a:example.com")
	if err != nil {
		t.Fatalf("ListOutreachHistory failed: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 outreaches, got %d", len(history))
	}
	if history[0].Outreach.EventID != "$early" || history[1].Outreach.EventID != "$late" {
		t.Errorf("expected chronological outreach order, got %q then %q",
			history[0].Outreach.EventID, history[1].Outreach.EventID)
	}

	early := history[0]
	if len(early.Responses) != 2 {
		t.Fatalf("expected 2 responses for $early, got %d", len(early.Responses))
	}
	if early.Responses[0].EventID != "$r1" || early.Responses[1].EventID != "$r2" {
		t.Errorf("expected responses ordered by timestamp, got %q then %q",
			early.Responses[0].EventID, early.Responses[1].EventID)
	}

	if len(history[1].Responses) != 0 {
		t.Errorf("expected no responses for $late, got %d", len(history[1].Responses))
	}
}
