package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/outreach-scheduler/internal/parse"
	"github.com/example/outreach-scheduler/internal/persistence"
)

// PromptStore captures the persistence operations needed by the service.
type PromptStore interface {
	UpsertPrompt(ctx context.Context, prompt persistence.Prompt) error
	GetPrompt(ctx context.Context, roomID, name string) (persistence.Prompt, error)
	DeletePrompt(ctx context.Context, roomID, name string) error
	ListPrompts(ctx context.Context, roomID string) ([]persistence.Prompt, error)
}

// RoomLocator resolves the effective wall-clock location for a room.
type RoomLocator interface {
	EffectiveLocation(ctx context.Context, roomID string) *time.Location
}

// PromptService validates and persists prompt configuration.
type PromptService struct {
	prompts PromptStore
	rooms   RoomLocator
	logger  *slog.Logger
}

// NewPromptService constructs a prompt service with the provided dependencies.
func NewPromptService(prompts PromptStore, rooms RoomLocator) *PromptService {
	return NewPromptServiceWithLogger(prompts, rooms, nil)
}

// NewPromptServiceWithLogger constructs a prompt service with a specified logger.
func NewPromptServiceWithLogger(prompts PromptStore, rooms RoomLocator, logger *slog.Logger) *PromptService {
	return &PromptService{prompts: prompts, rooms: rooms, logger: defaultLogger(logger)}
}

func (s *PromptService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PromptService", operation, attrs...)
}

// UpsertTemplate creates a prompt or replaces an existing prompt's message
// template, preserving any configured schedule.
func (s *PromptService) UpsertTemplate(ctx context.Context, roomID, name, template string) (prompt Prompt, err error) {
	logger := s.loggerWith(ctx, "UpsertTemplate", "room_id", roomID, "prompt", name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to upsert prompt", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "prompt template stored")
	}()

	vErr := &ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		vErr.add("name", "prompt name must not be empty")
	}
	if strings.TrimSpace(template) == "" {
		vErr.add("message_template", "message template must not be empty")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	record, gerr := s.prompts.GetPrompt(ctx, roomID, name)
	switch {
	case errors.Is(gerr, persistence.ErrNotFound):
		record = persistence.Prompt{RoomID: roomID, Name: name}
	case gerr != nil:
		err = fmt.Errorf("failed to load prompt: %w", gerr)
		return
	}

	record.MessageTemplate = template
	if err = s.prompts.UpsertPrompt(ctx, record); err != nil {
		err = fmt.Errorf("failed to store prompt: %w", err)
		return
	}

	prompt = toPrompt(record)
	return
}

// SetSchedule parses the supplied expressions and schedules the prompt. The
// first-run expression is resolved against the room's effective timezone so
// "today 21:00" means the room's evening, not the server's.
func (s *PromptService) SetSchedule(ctx context.Context, roomID, name string, input ScheduleInput) (prompt Prompt, err error) {
	logger := s.loggerWith(ctx, "SetSchedule", "room_id", roomID, "prompt", name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "prompt scheduled", "next_run", prompt.NextRun)
	}()

	record, gerr := s.prompts.GetPrompt(ctx, roomID, name)
	if errors.Is(gerr, persistence.ErrNotFound) {
		err = ErrNotFound
		return
	}
	if gerr != nil {
		err = fmt.Errorf("failed to load prompt: %w", gerr)
		return
	}

	loc := time.UTC
	if s.rooms != nil {
		loc = s.rooms.EffectiveLocation(ctx, roomID)
	}

	vErr := &ValidationError{}

	var nextRun time.Time
	if strings.TrimSpace(input.At) == "" {
		vErr.add("at", "first run expression is required")
	} else if nextRun, err = parse.Schedule(input.At, loc); err != nil {
		vErr.add("at", err.Error())
		err = nil
	}

	var interval *time.Duration
	if strings.TrimSpace(input.Every) != "" {
		parsed, perr := parse.Interval(input.Every)
		if perr != nil {
			vErr.add("every", perr.Error())
		} else {
			interval = &parsed
		}
	}

	var maxDelay *time.Duration
	if strings.TrimSpace(input.MaxRandomDelay) != "" {
		parsed, perr := parse.Interval(input.MaxRandomDelay)
		if perr != nil {
			vErr.add("max_random_delay", perr.Error())
		} else {
			maxDelay = &parsed
		}
	}

	if vErr.HasErrors() {
		err = vErr
		return
	}

	utcNext := nextRun.UTC()
	record.NextRun = &utcNext
	record.RunInterval = interval
	record.MaxRandomDelay = maxDelay

	if err = s.prompts.UpsertPrompt(ctx, record); err != nil {
		err = fmt.Errorf("failed to store prompt: %w", err)
		return
	}

	prompt = toPrompt(record)
	return
}

// ClearSchedule removes a prompt's schedule, interval, and jitter bound,
// leaving the template in place.
func (s *PromptService) ClearSchedule(ctx context.Context, roomID, name string) (prompt Prompt, err error) {
	logger := s.loggerWith(ctx, "ClearSchedule", "room_id", roomID, "prompt", name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to clear schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "prompt schedule cleared")
	}()

	record, gerr := s.prompts.GetPrompt(ctx, roomID, name)
	if errors.Is(gerr, persistence.ErrNotFound) {
		err = ErrNotFound
		return
	}
	if gerr != nil {
		err = fmt.Errorf("failed to load prompt: %w", gerr)
		return
	}

	record.NextRun = nil
	record.RunInterval = nil
	record.MaxRandomDelay = nil

	if err = s.prompts.UpsertPrompt(ctx, record); err != nil {
		err = fmt.Errorf("failed to store prompt: %w", err)
		return
	}

	prompt = toPrompt(record)
	return
}

// DeletePrompt removes a prompt definition. Outreach history referencing the
// prompt name is intentionally retained.
func (s *PromptService) DeletePrompt(ctx context.Context, roomID, name string) (err error) {
	logger := s.loggerWith(ctx, "DeletePrompt", "room_id", roomID, "prompt", name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete prompt", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "prompt deleted")
	}()

	err = s.prompts.DeletePrompt(ctx, roomID, name)
	if errors.Is(err, persistence.ErrNotFound) {
		err = ErrNotFound
	}
	return
}

// ListPrompts returns every prompt configured for a room, ordered by name.
func (s *PromptService) ListPrompts(ctx context.Context, roomID string) ([]Prompt, error) {
	records, err := s.prompts.ListPrompts(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	prompts := make([]Prompt, 0, len(records))
	for _, record := range records {
		prompts = append(prompts, toPrompt(record))
	}
	return prompts, nil
}

func toPrompt(record persistence.Prompt) Prompt {
	return Prompt{
		RoomID:          record.RoomID,
		Name:            record.Name,
		MessageTemplate: record.MessageTemplate,
		NextRun:         record.NextRun,
		RunInterval:     record.RunInterval,
		MaxRandomDelay:  record.MaxRandomDelay,
	}
}
