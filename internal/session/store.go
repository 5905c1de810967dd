package session

import (
	"context"
	"sync"

	"pdfchat/internal/models"
)

// Store is the injected session table. Implementations must be safe for
// concurrent use; the in-memory map serves tests and single-process
// deployments, BunStore persists sessions in Postgres.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Put(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in a process-local map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) Put(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return models.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// cloneSession copies the session so callers cannot mutate stored state
// behind the lock.
func cloneSession(s *models.Session) *models.Session {
	clone := *s
	clone.Files = append([]string(nil), s.Files...)
	return &clone
}
