package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ewhitmore/cardtable/internal/models"
)

// MemoryStore keeps sessions in a mutex-guarded map. It backs the
// "memory:" connection string for local development and tests; nothing
// survives a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.GameSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.GameSession)}
}

func (s *MemoryStore) Put(_ context.Context, session *models.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Store a copy so later caller mutations don't leak in.
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return session.Clone(), nil
}

func (s *MemoryStore) Close() {}

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
