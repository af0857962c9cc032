package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit events per application. The default store when
// no external persistence is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ApplicationID] = append(s.events[event.ApplicationID], event)
	return nil
}

func (s *InMemoryStore) ListByApplication(_ context.Context, applicationID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[applicationID]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]Event)
}
