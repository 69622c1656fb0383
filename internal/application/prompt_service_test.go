package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/outreach-scheduler/internal/testfixtures"
)

func newPromptService(t *testing.T) (*PromptService, *testfixtures.MemoryStore) {
	t.Helper()
	store := testfixtures.NewMemoryStore()
	rooms := NewRoomService(store, time.UTC)
	return NewPromptService(store, rooms), store
}

func TestPromptService_UpsertTemplate(t *testing.T) {
	service, store := newPromptService(t)
	ctx := context.Background()

	prompt, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "How do you feel on $(date)?")
	if err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}
	if prompt.MessageTemplate != "How do you feel on $(date)?" {
		t.Errorf("unexpected template: %q", prompt.MessageTemplate)
	}
	if prompt.NextRun != nil {
		t.Errorf("new prompt must start unscheduled, got %v", prompt.NextRun)
	}

	// Re-upserting the template must not clobber an existing schedule.
	if _, err := service.SetSchedule(ctx, "!a:example.com", "mood", ScheduleInput{At: "2030-01-02 09:00", Every: "1d"}); err != nil {
		t.Fatalf("SetSchedule failed: %v", err)
	}
	if _, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "updated"); err != nil {
		t.Fatalf("second UpsertTemplate failed: %v", err)
	}

	record, err := store.GetPrompt(ctx, "!a:example.com", "mood")
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}
	if record.MessageTemplate != "updated" {
		t.Errorf("expected updated template, got %q", record.MessageTemplate)
	}
	if record.NextRun == nil || record.RunInterval == nil {
		t.Errorf("expected schedule preserved, got %+v", record)
	}
}

func TestPromptService_UpsertTemplate_Validation(t *testing.T) {
	service, _ := newPromptService(t)

	_, err := service.UpsertTemplate(context.Background(), "!a:example.com", " ", "")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"name", "message_template"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("expected %s field error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestPromptService_SetSchedule(t *testing.T) {
	service, store := newPromptService(t)
	ctx := context.Background()

	if _, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "hi"); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}

	prompt, err := service.SetSchedule(ctx, "!a:example.com", "mood", ScheduleInput{
		At:             "2030-01-02 09:00",
		Every:          "1d",
		MaxRandomDelay: "16h",
	})
	if err != nil {
		t.Fatalf("SetSchedule failed: %v", err)
	}

	want := time.Date(2030, time.January, 2, 9, 0, 0, 0, time.UTC)
	if prompt.NextRun == nil || !prompt.NextRun.Equal(want) {
		t.Errorf("expected next run %v, got %v", want, prompt.NextRun)
	}
	if prompt.RunInterval == nil || *prompt.RunInterval != 24*time.Hour {
		t.Errorf("expected interval 24h, got %v", prompt.RunInterval)
	}
	if prompt.MaxRandomDelay == nil || *prompt.MaxRandomDelay != 16*time.Hour {
		t.Errorf("expected max random delay 16h, got %v", prompt.MaxRandomDelay)
	}

	record, err := store.GetPrompt(ctx, "!a:example.com", "mood")
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}
	if record.NextRun == nil || !record.NextRun.Equal(want) {
		t.Errorf("expected persisted next run %v, got %v", want, record.NextRun)
	}
}

func TestPromptService_SetSchedule_RoomTimezone(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	rooms := NewRoomService(store, time.UTC)
	service := NewPromptService(store, rooms)
	ctx := context.Background()

	if _, err := rooms.SetTimezone(ctx, "!a:example.com", "America/Los_Angeles"); err != nil {
		t.Fatalf("SetTimezone failed: %v", err)
	}
	if _, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "hi"); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}

	prompt, err := service.SetSchedule(ctx, "!a:example.com", "mood", ScheduleInput{At: "2030-01-02 09:00"})
	if err != nil {
		t.Fatalf("SetSchedule failed: %v", err)
	}

	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	want := time.Date(2030, time.January, 2, 9, 0, 0, 0, loc)
	if prompt.NextRun == nil || !prompt.NextRun.Equal(want) {
		t.Errorf("expected 09:00 in the room's zone (%v), got %v", want, prompt.NextRun)
	}
}

func TestPromptService_SetSchedule_Validation(t *testing.T) {
	service, _ := newPromptService(t)
	ctx := context.Background()

	if _, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "hi"); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}

	_, err := service.SetSchedule(ctx, "!a:example.com", "mood", ScheduleInput{
		At:             "someday 09:00",
		Every:          "1d2h",
		MaxRandomDelay: "soon",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"at", "every", "max_random_delay"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("expected %s field error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestPromptService_SetSchedule_UnknownPrompt(t *testing.T) {
	service, _ := newPromptService(t)

	_, err := service.SetSchedule(context.Background(), "!a:example.com", "missing", ScheduleInput{At: "2030-01-02 09:00"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPromptService_ClearSchedule(t *testing.T) {
	service, store := newPromptService(t)
	ctx := context.Background()

	if _, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "hi"); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}
	if _, err := service.SetSchedule(ctx, "!a:example.com", "mood", ScheduleInput{At: "2030-01-02 09:00", Every: "1d", MaxRandomDelay: "1h"}); err != nil {
		t.Fatalf("SetSchedule failed: %v", err)
	}

	prompt, err := service.ClearSchedule(ctx, "!a:example.com", "mood")
	if err != nil {
		t.Fatalf("ClearSchedule failed: %v", err)
	}
	if prompt.NextRun != nil || prompt.RunInterval != nil || prompt.MaxRandomDelay != nil {
		t.Errorf("expected cleared schedule, got %+v", prompt)
	}

	record, err := store.GetPrompt(ctx, "!a:example.com", "mood")
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}
	if record.MessageTemplate != "hi" {
		t.Errorf("expected template preserved, got %q", record.MessageTemplate)
	}
}

func TestPromptService_DeletePrompt(t *testing.T) {
	service, _ := newPromptService(t)
	ctx := context.Background()

	if _, err := service.UpsertTemplate(ctx, "!a:example.com", "mood", "hi"); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}
	if err := service.DeletePrompt(ctx, "!a:example.com", "mood"); err != nil {
		t.Fatalf("DeletePrompt failed: %v", err)
	}
	if err := service.DeletePrompt(ctx, "!a:example.com", "mood"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPromptService_ListPrompts(t *testing.T) {
	service, _ := newPromptService(t)
	ctx := context.Background()

	for _, name := range []string{"water", "mood"} {
		if _, err := service.UpsertTemplate(ctx, "!a:example.com", name, "hi"); err != nil {
			t.Fatalf("UpsertTemplate(%s) failed: %v", name, err)
		}
	}

	prompts, err := service.ListPrompts(ctx, "!a:example.com")
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(prompts) != 2 || prompts[0].Name != "mood" || prompts[1].Name != "water" {
		t.Errorf("unexpected prompt list: %+v", prompts)
	}
}
