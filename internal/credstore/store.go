package credstore

import (
	"sync"

	"kaambuddy/internal/domain"
)

// Storage keys, shared by both implementations. They match the keys the
// mobile app kept in its on-device key-value storage.
const (
	keyAuthToken    = "auth_token"
	keyRefreshToken = "refresh_token"
	keyUserData     = "user_data"
)

// Store is the credential cache: bearer token, refresh token and the last
// known user record. It must survive process restarts in the persistent
// implementation and is cleared as a whole on logout or a 401.
type Store interface {
	Token() (string, error)
	SetToken(token string) error
	RefreshToken() (string, error)
	SetRefreshToken(token string) error
	User() (*domain.User, error)
	SetUser(user *domain.User) error
	Clear() error
}

// MemStore is a non-persistent Store for tests and one-shot CLI runs.
type MemStore struct {
	mu      sync.Mutex
	token   string
	refresh string
	user    *domain.User
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) RefreshToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, nil
}

func (s *MemStore) SetRefreshToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = token
	return nil
}

func (s *MemStore) User() (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}

func (s *MemStore) SetUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return nil
	}
	u := *user
	s.user = &u
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.refresh = ""
	s.user = nil
	return nil
}
