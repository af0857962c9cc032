package storage

import (
	"context"
	"sort"
	"sync"

	"kyc-gateway/internal/domain"
	"kyc-gateway/pkg/platform/sentinel"
)

// In-memory stores keep the default wiring lightweight and testable. They
// intentionally favor clarity over performance.

type InMemoryUserStore struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	autoID int
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]domain.User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return domain.User{}, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) NextAutoID(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoID++
	return s.autoID, nil
}

type InMemoryApplicationStore struct {
	mu   sync.RWMutex
	apps map[string]domain.Application
}

func NewInMemoryApplicationStore() *InMemoryApplicationStore {
	return &InMemoryApplicationStore{apps: make(map[string]domain.Application)}
}

func (s *InMemoryApplicationStore) Save(_ context.Context, app domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = app
	return nil
}

func (s *InMemoryApplicationStore) FindByID(_ context.Context, id string) (domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if app, ok := s.apps[id]; ok {
		return app, nil
	}
	return domain.Application{}, sentinel.ErrNotFound
}

func (s *InMemoryApplicationStore) FindActiveByUser(_ context.Context, userID string) (domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Application
	for _, app := range s.apps {
		if app.UserID != userID || app.Status.Terminal() {
			continue
		}
		if found == nil || app.CreatedAt.After(found.CreatedAt) {
			candidate := app
			found = &candidate
		}
	}
	if found == nil {
		return domain.Application{}, sentinel.ErrNotFound
	}
	return *found, nil
}

func (s *InMemoryApplicationStore) ListByUser(_ context.Context, userID string) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Application
	for _, app := range s.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type InMemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document

	// order preserves insertion order so listings are stable even when
	// several documents share an upload timestamp.
	order []string
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[string]domain.Document)}
}

func (s *InMemoryDocumentStore) Save(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *InMemoryDocumentStore) FindByID(_ context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.docs[id]; ok {
		return doc, nil
	}
	return domain.Document{}, sentinel.ErrNotFound
}

func (s *InMemoryDocumentStore) ListByApplication(_ context.Context, applicationID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Document
	for _, id := range s.order {
		if doc := s.docs[id]; doc.ApplicationID == applicationID {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

type InMemoryStageStore struct {
	mu     sync.RWMutex
	stages map[string]domain.Stage // keyed by applicationID + "/" + stage name
	order  []string
}

func NewInMemoryStageStore() *InMemoryStageStore {
	return &InMemoryStageStore{stages: make(map[string]domain.Stage)}
}

func stageKey(applicationID string, name domain.StageName) string {
	return applicationID + "/" + string(name)
}

func (s *InMemoryStageStore) Save(_ context.Context, stage domain.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stageKey(stage.ApplicationID, stage.Name)
	if _, exists := s.stages[key]; !exists {
		s.order = append(s.order, key)
	}
	s.stages[key] = stage
	return nil
}

func (s *InMemoryStageStore) Find(_ context.Context, applicationID string, name domain.StageName) (domain.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if stage, ok := s.stages[stageKey(applicationID, name)]; ok {
		return stage, nil
	}
	return domain.Stage{}, sentinel.ErrNotFound
}

func (s *InMemoryStageStore) ListByApplication(_ context.Context, applicationID string) ([]domain.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Stage
	for _, key := range s.order {
		if stage := s.stages[key]; stage.ApplicationID == applicationID {
			out = append(out, stage)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
