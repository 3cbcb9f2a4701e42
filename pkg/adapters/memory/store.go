package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/murmur/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[int]*domain.Session
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[int]*domain.Session),
	}
}

// Save stores a copy of the session.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.Group] = copied
	return nil
}

// Load retrieves a copy of the session of a group.
func (s *Store) Load(ctx context.Context, group int) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[group]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, group int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, group)
	return nil
}

// List returns the stored groups in ascending order.
func (s *Store) List(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]int, 0, len(s.data))
	for g := range s.data {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups, nil
}
