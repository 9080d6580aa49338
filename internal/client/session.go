package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Session holds the auth token, the sole piece of mutable client state. The
// token is only ever replaced or cleared whole, never partially mutated.
// A Session may be backed by a file so the token survives process restarts,
// mirroring what the browser front end does with local storage.
type Session struct {
	mu    sync.Mutex
	token string
	path  string
}

// NewSession returns an in-memory session with no token.
func NewSession() *Session {
	return &Session{}
}

// NewFileSession returns a session persisted at path. An existing token file
// is loaded; a missing or unreadable file just means no session yet.
func NewFileSession(path string) *Session {
	s := &Session{path: path}
	if raw, err := os.ReadFile(path); err == nil {
		s.token = strings.TrimSpace(string(raw))
	}
	return s
}

// Set replaces the stored token.
func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.path != "" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err == nil {
			_ = os.WriteFile(s.path, []byte(token), 0o600)
		}
	}
}

// Token returns the stored token, empty if none.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Clear discards the stored token. Never fails.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.path != "" {
		_ = os.Remove(s.path)
	}
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
