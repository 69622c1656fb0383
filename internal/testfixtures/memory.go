package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/outreach-scheduler/internal/persistence"
)

type outreachKey struct {
	roomID  string
	eventID string
}

type promptKey struct {
	roomID string
	name   string
}

// MemoryStore is an in-memory implementation of every persistence repository
// interface, mirroring the SQLite layer's semantics for service and
// scheduler tests.
type MemoryStore struct {
	mu         sync.RWMutex
	rooms      map[string]persistence.Room
	prompts    map[promptKey]persistence.Prompt
	outreaches map[outreachKey]persistence.Outreach
	responses  map[outreachKey]persistence.Response
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:      make(map[string]persistence.Room),
		prompts:    make(map[promptKey]persistence.Prompt),
		outreaches: make(map[outreachKey]persistence.Outreach),
		responses:  make(map[outreachKey]persistence.Response),
	}
}

// --- RoomRepository implementation ---

// UpsertRoom stores or replaces a room.
func (s *MemoryStore) UpsertRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// GetRoom retrieves a room by ID.
func (s *MemoryStore) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return cloneRoom(room), nil
}

// --- PromptRepository implementation ---

// UpsertPrompt stores or replaces a prompt and lazily creates its room.
func (s *MemoryStore) UpsertPrompt(ctx context.Context, prompt persistence.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[prompt.RoomID]; !ok {
		s.rooms[prompt.RoomID] = persistence.Room{ID: prompt.RoomID}
	}

	s.prompts[promptKey{prompt.RoomID, prompt.Name}] = clonePrompt(prompt)
	return nil
}

// GetPrompt retrieves a prompt by its composite key.
func (s *MemoryStore) GetPrompt(ctx context.Context, roomID, name string) (persistence.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompt, ok := s.prompts[promptKey{roomID, name}]
	if !ok {
		return persistence.Prompt{}, persistence.ErrNotFound
	}
	return clonePrompt(prompt), nil
}

// DeletePrompt removes a prompt.
func (s *MemoryStore) DeletePrompt(ctx context.Context, roomID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := promptKey{roomID, name}
	if _, ok := s.prompts[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.prompts, key)
	return nil
}

// ListPrompts returns a room's prompts ordered by name.
func (s *MemoryStore) ListPrompts(ctx context.Context, roomID string) ([]persistence.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prompts []persistence.Prompt
	for key, prompt := range s.prompts {
		if key.roomID == roomID {
			prompts = append(prompts, clonePrompt(prompt))
		}
	}

	sort.Slice(prompts, func(i, j int) bool {
		return prompts[i].Name < prompts[j].Name
	})

	return prompts, nil
}

// ListDuePrompts returns scheduled prompts whose next run does not exceed
// the cutoff, ordered by room then name.
func (s *MemoryStore) ListDuePrompts(ctx context.Context, cutoff time.Time) ([]persistence.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []persistence.Prompt
	for _, prompt := range s.prompts {
		if prompt.NextRun != nil && !prompt.NextRun.After(cutoff) {
			due = append(due, clonePrompt(prompt))
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].RoomID == due[j].RoomID {
			return due[i].Name < due[j].Name
		}
		return due[i].RoomID < due[j].RoomID
	})

	return due, nil
}

// --- OutreachRepository implementation ---

// InsertOutreach records a sent message, rejecting duplicate keys.
func (s *MemoryStore) InsertOutreach(ctx context.Context, outreach persistence.Outreach) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := outreachKey{outreach.RoomID, outreach.EventID}
	if _, ok := s.outreaches[key]; ok {
		return persistence.ErrDuplicateOutreach
	}
	s.outreaches[key] = outreach
	return nil
}

// GetOutreach retrieves an outreach by its composite key.
func (s *MemoryStore) GetOutreach(ctx context.Context, roomID, eventID string) (persistence.Outreach, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outreach, ok := s.outreaches[outreachKey{roomID, eventID}]
	if !ok {
		return persistence.Outreach{}, persistence.ErrNotFound
	}
	return outreach, nil
}

// ListOutreachHistory joins a room's outreaches to their responses with the
// export ordering.
func (s *MemoryStore) ListOutreachHistory(ctx context.Context, roomID string) ([]persistence.OutreachHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []persistence.OutreachHistory
	for key, outreach := range s.outreaches {
		if key.roomID != roomID {
			continue
		}
		entry := persistence.OutreachHistory{Outreach: outreach}
		for _, response := range s.responses {
			if response.RoomID == roomID && response.OutreachEventID == outreach.EventID {
				entry.Responses = append(entry.Responses, response)
			}
		}
		sort.Slice(entry.Responses, func(i, j int) bool {
			if entry.Responses[i].ReceivedAt.Equal(entry.Responses[j].ReceivedAt) {
				return entry.Responses[i].EventID < entry.Responses[j].EventID
			}
			return entry.Responses[i].ReceivedAt.Before(entry.Responses[j].ReceivedAt)
		})
		history = append(history, entry)
	}

	sort.Slice(history, func(i, j int) bool {
		if history[i].Outreach.SentAt.Equal(history[j].Outreach.SentAt) {
			return history[i].Outreach.EventID < history[j].Outreach.EventID
		}
		return history[i].Outreach.SentAt.Before(history[j].Outreach.SentAt)
	})

	return history, nil
}

// --- ResponseRepository implementation ---

// InsertResponse records a response, rejecting duplicate keys.
func (s *MemoryStore) InsertResponse(ctx context.Context, response persistence.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := outreachKey{response.RoomID, response.EventID}
	if _, ok := s.responses[key]; ok {
		return persistence.ErrDuplicateResponse
	}
	s.responses[key] = response
	return nil
}

func cloneRoom(room persistence.Room) persistence.Room {
	clone := room
	if room.TZ != nil {
		tz := *room.TZ
		clone.TZ = &tz
	}
	return clone
}

func clonePrompt(prompt persistence.Prompt) persistence.Prompt {
	clone := prompt
	if prompt.NextRun != nil {
		next := *prompt.NextRun
		clone.NextRun = &next
	}
	if prompt.RunInterval != nil {
		interval := *prompt.RunInterval
		clone.RunInterval = &interval
	}
	if prompt.MaxRandomDelay != nil {
		delay := *prompt.MaxRandomDelay
		clone.MaxRandomDelay = &delay
	}
	return clone
}
