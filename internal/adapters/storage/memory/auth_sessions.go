package memory

import (
	"context"
	"sync"

	"github.com/maumlog/maum-api/internal/domain"
)

// AuthSessionStore maps opaque auth tokens to user ids in memory.
type AuthSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.UserID
}

func NewAuthSessionStore() *AuthSessionStore {
	return &AuthSessionStore{
		sessions: make(map[string]domain.UserID),
	}
}

// Put registers a token for a user. Used by local mode and tests; production
// tokens are written by the OAuth flow.
func (s *AuthSessionStore) Put(token string, userID domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
}

func (s *AuthSessionStore) FindUserID(ctx context.Context, token string) (domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[token], nil
}
