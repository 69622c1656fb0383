package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/example/outreach-scheduler/internal/testfixtures"
)

// Runs a full firing cycle against a real SQLite database: due query,
// send, outreach insert, and schedule advance all cross the storage layer
// with its timestamp encoding.
func TestScheduler_Tick_SQLiteBacked(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	sender := newRecordingSender()
	clock := testfixtures.NewClock(time.Time{})
	ctx := context.Background()

	loop := New(Config{
		Prompts:    harness.Prompts,
		Outreaches: harness.Outreaches,
		Rooms:      staticRooms{loc: time.UTC},
		Sender:     sender,
		Jitter:     testfixtures.NewFixedJitter(0),
		Now:        clock.NowFunc(),
	})

	scheduledAt := testfixtures.ReferenceTime()
	prompt := testfixtures.NewPromptFixture(
		testfixtures.WithNextRun(scheduledAt),
		testfixtures.WithInterval(time.Hour),
	)
	if err := harness.Prompts.UpsertPrompt(ctx, prompt); err != nil {
		t.Fatalf("UpsertPrompt failed: %v", err)
	}

	clock.Set(scheduledAt.Add(time.Minute))
	if err := loop.tick(ctx); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if sent := sender.Sent(); len(sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sent))
	}

	history, err := harness.Outreaches.ListOutreachHistory(ctx, prompt.RoomID)
	if err != nil {
		t.Fatalf("ListOutreachHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 outreach row, got %d", len(history))
	}
	if !history[0].Outreach.SentAt.Equal(scheduledAt.Add(time.Minute)) {
		t.Errorf("outreach sent at %v, want %v", history[0].Outreach.SentAt, scheduledAt.Add(time.Minute))
	}

	advanced, err := harness.Prompts.GetPrompt(ctx, prompt.RoomID, prompt.Name)
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}
	if advanced.NextRun == nil || !advanced.NextRun.Equal(scheduledAt.Add(time.Hour)) {
		t.Errorf("next run = %v, want %v", advanced.NextRun, scheduledAt.Add(time.Hour))
	}

	// The advanced time is in the future, so the same cutoff yields nothing.
	if err := loop.tick(ctx); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if sent := sender.Sent(); len(sent) != 1 {
		t.Errorf("expected no further sends, got %d", len(sent))
	}
}
