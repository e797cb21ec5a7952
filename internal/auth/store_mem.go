package auth

import (
	"context"
	"errors"
	"sync"
)

// MemStore keeps users in process memory. Used with the memory catalog
// driver and in tests.
type MemStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]User
}

func NewMemStore() *MemStore {
	return &MemStore{users: map[int64]User{}}
}

func (s *MemStore) CreateUser(_ context.Context, username, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return User{}, errors.New("username already exists")
		}
	}
	s.nextID++
	u := User{ID: s.nextID, Username: username, PasswordHash: passwordHash, TokenVersion: 1}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStore) FindUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *MemStore) UpdateUserPasswordHash(_ context.Context, userID int64, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = newHash
	s.users[userID] = u
	return nil
}

func (s *MemStore) TokenVersion(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	return u.TokenVersion, nil
}

// RevokeAll bumps the user's token version, invalidating issued tokens.
func (s *MemStore) RevokeAll(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.TokenVersion++
		s.users[userID] = u
	}
}
