package client

import (
	"sync"

	"github.com/yukikurage/task-tracker-api/internal/dto"
)

// Session holds the bearer token and the user it belongs to
type Session struct {
	mu    sync.RWMutex
	token string
	user  *dto.UserDTO
}

// NewSession returns an empty session
func NewSession() *Session {
	return &Session{}
}

// Set stores a token and the user it was issued for
func (s *Session) Set(token string, user *dto.UserDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if user != nil {
		copied := *user
		s.user = &copied
	} else {
		s.user = nil
	}
}

// Clear forgets the token and the user
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil
func (s *Session) User() *dto.UserDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// setUser replaces the cached user and keeps the token
func (s *Session) setUser(user dto.UserDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return
	}
	s.user = &user
}
