// Package scheduler implements the polling loop that fires due prompts:
// it queries the store for prompts whose next run has passed, renders and
// sends each one sequentially, records the resulting outreach, and advances
// the prompt's schedule anchored to its previous scheduled time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/outreach-scheduler/internal/message"
	"github.com/example/outreach-scheduler/internal/persistence"
)

// ErrSendFailed marks a chat-transport failure for a single prompt. The
// prompt's schedule is left unchanged so it is retried on the next tick,
// and the rest of the tick's due set still runs.
var ErrSendFailed = errors.New("send failed")

// ErrAlreadyRunning is returned by Start when the loop is already running.
var ErrAlreadyRunning = errors.New("scheduler already running")

// Sender delivers a rendered message to a room and returns the transport's
// event identifier for the sent message.
type Sender interface {
	SendMessage(ctx context.Context, roomID, text string) (eventID string, err error)
}

// PromptStore captures the prompt operations the loop needs.
type PromptStore interface {
	ListDuePrompts(ctx context.Context, cutoff time.Time) ([]persistence.Prompt, error)
	UpsertPrompt(ctx context.Context, prompt persistence.Prompt) error
}

// OutreachStore records sent messages.
type OutreachStore interface {
	InsertOutreach(ctx context.Context, outreach persistence.Outreach) error
}

// RoomLocator resolves a room's effective time zone for rendering.
type RoomLocator interface {
	EffectiveLocation(ctx context.Context, roomID string) *time.Location
}

// DelaySource draws the random jitter added to a recurring prompt's next
// run. Implementations must return a value in [0, max].
type DelaySource interface {
	Delay(max time.Duration) time.Duration
}

// Config wires a Scheduler's dependencies. Prompts, Outreaches, Rooms and
// Sender are required; the rest default to production values.
type Config struct {
	Prompts    PromptStore
	Outreaches OutreachStore
	Rooms      RoomLocator
	Sender     Sender

	// PollInterval is the sleep between ticks. Defaults to 30 seconds.
	PollInterval time.Duration
	// Jitter defaults to a uniform random source.
	Jitter DelaySource
	// Now defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Scheduler is the owner of the polling loop. It starts Stopped; Start
// transitions it to Running and Stop back to Stopped, letting the current
// iteration finish rather than interrupting an in-flight send.
type Scheduler struct {
	prompts      PromptStore
	outreaches   OutreachStore
	rooms        RoomLocator
	sender       Sender
	pollInterval time.Duration
	jitter       DelaySource
	now          func() time.Time
	logger       *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New constructs a stopped scheduler from the supplied configuration.
func New(cfg Config) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.Jitter == nil {
		cfg.Jitter = UniformDelay{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{
		prompts:      cfg.Prompts,
		outreaches:   cfg.Outreaches,
		rooms:        cfg.Rooms,
		sender:       cfg.Sender,
		pollInterval: cfg.PollInterval,
		jitter:       cfg.Jitter,
		now:          cfg.Now,
		logger:       cfg.Logger,
	}
}

// Running reports whether the loop is currently active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start launches the polling loop. The loop runs until Stop is called or
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(ctx, s.stopCh, s.doneCh)
	s.logger.InfoContext(ctx, "scheduler started", "poll_interval", s.pollInterval)
	return nil
}

// Stop transitions the scheduler to Stopped and waits for the loop to exit.
// The current iteration completes; no send is interrupted mid-flight.
// Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if err := s.tick(ctx); err != nil {
			// Store failures abort the tick; the loop retries after
			// its normal sleep.
			s.logger.ErrorContext(ctx, "tick aborted", "error", err)
		}

		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick computes one fixed due set and fires each member sequentially.
// Prompts becoming due while the tick is in progress wait for the next one.
func (s *Scheduler) tick(ctx context.Context) error {
	cutoff := s.now().UTC()

	due, err := s.prompts.ListDuePrompts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to query due prompts: %w", err)
	}

	for _, prompt := range due {
		err := s.fire(ctx, prompt)
		if errors.Is(err, ErrSendFailed) {
			// Schedule unchanged, retried next tick. The rest of the
			// due set still runs.
			s.logger.WarnContext(ctx, "send failed, prompt deferred to next tick",
				"room_id", prompt.RoomID, "prompt", prompt.Name, "error", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to process prompt %s/%s: %w", prompt.RoomID, prompt.Name, err)
		}
	}

	return nil
}

// fire sends one due prompt, records the outreach, and advances the
// schedule. The outreach row is written before the prompt advances, so a
// crash in between is recovered by refiring and letting the store's
// duplicate guard absorb the repeat.
func (s *Scheduler) fire(ctx context.Context, prompt persistence.Prompt) error {
	// Re-read the clock: earlier sends in this tick took nonzero time.
	now := s.now()
	loc := s.rooms.EffectiveLocation(ctx, prompt.RoomID)
	text := message.Render(prompt.MessageTemplate, now.In(loc))

	eventID, err := s.sender.SendMessage(ctx, prompt.RoomID, text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	outreach := persistence.Outreach{
		RoomID:     prompt.RoomID,
		EventID:    eventID,
		PromptName: prompt.Name,
		SentAt:     now.UTC(),
		Message:    text,
	}
	err = s.outreaches.InsertOutreach(ctx, outreach)
	if err != nil && !errors.Is(err, persistence.ErrDuplicateOutreach) {
		return fmt.Errorf("failed to record outreach: %w", err)
	}

	advanced := s.advance(prompt)
	if err := s.prompts.UpsertPrompt(ctx, advanced); err != nil {
		return fmt.Errorf("failed to advance prompt: %w", err)
	}

	s.logger.InfoContext(ctx, "prompt fired",
		"room_id", prompt.RoomID, "prompt", prompt.Name, "event_id", eventID)
	return nil
}

// advance computes the prompt's next scheduled run. One-shot prompts
// disable themselves. Recurring prompts advance from their own previous
// scheduled time, not from the wall clock, so the cadence never drifts. A
// prompt that fell several intervals behind advances one interval per
// firing and becomes due again on the next tick until it catches up.
func (s *Scheduler) advance(prompt persistence.Prompt) persistence.Prompt {
	if prompt.RunInterval == nil || prompt.NextRun == nil {
		prompt.NextRun = nil
		return prompt
	}

	var jitter time.Duration
	if prompt.MaxRandomDelay != nil {
		jitter = s.jitter.Delay(*prompt.MaxRandomDelay)
	}

	next := prompt.NextRun.Add(*prompt.RunInterval + jitter)
	prompt.NextRun = &next
	return prompt
}
