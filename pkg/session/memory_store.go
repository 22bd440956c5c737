package session

import (
	"context"
	"sync"

	"bookoracle/pkg/domain"
)

// MemoryStore keeps the session in-process. Used by tests and by callers
// that do not want credentials on disk.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	user    domain.User
	hasUser bool
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = s.AccessToken
	m.refresh = s.RefreshToken
	m.user = s.User
	m.hasUser = true
	return nil
}

func (m *MemoryStore) Current(_ context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.access == "" || m.refresh == "" || !m.hasUser {
		return Session{}, ErrNoSession
	}
	return Session{AccessToken: m.access, RefreshToken: m.refresh, User: m.user}, nil
}

func (m *MemoryStore) SetAccessToken(_ context.Context, access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	return nil
}

func (m *MemoryStore) UpdateProfile(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.hasUser = true
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.user = domain.User{}
	m.hasUser = false
	return nil
}
