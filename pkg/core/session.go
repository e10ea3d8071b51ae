package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session owns the authenticated identity for the lifetime of the application.
// It is created once, hydrated from the TokenStore and torn down on logout.
type Session struct {
	mu        sync.RWMutex
	store     TokenStore
	token     string
	user      *User
	onExpired func()
	logger    *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOnExpired registers the callback fired when the session cannot be refreshed.
func WithOnExpired(fn func()) SessionOption {
	return func(s *Session) {
		s.onExpired = fn
	}
}

// WithSessionLogger sets the logger for the session.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates an empty session backed by store. A nil store keeps the token in memory only.
func NewSession(store TokenStore, opts ...SessionOption) *Session {
	s := &Session{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the persisted token and, if one exists, the user profile.
// A token the backend rejects is cleared. Any other failure, such as an
// unreachable backend, keeps the token for the next attempt.
func (s *Session) Hydrate(ctx context.Context, fetchMe func(ctx context.Context) (*User, error)) error {
	if s.store == nil {
		return nil
	}
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := fetchMe(ctx)
	if err != nil && !IsAuth(err) {
		if s.logger != nil {
			s.logger.Warn("could not verify session", "error", err)
		}
		return nil
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("token invalid or expired", "error", err)
		}
		s.Teardown()
		return nil
	}
	s.SetUser(user)
	return nil
}

// Token returns the current bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the bearer token and persists it.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// User returns the loaded profile, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser records the loaded profile.
func (s *Session) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Teardown clears the token and the user, in memory and on disk.
func (s *Session) Teardown() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	if err := s.store.Clear(); err != nil && s.logger != nil {
		s.logger.Warn("failed to clear stored token", "error", err)
	}
}

// Expire tears the session down and fires the OnExpired callback.
func (s *Session) Expire() {
	s.Teardown()
	if s.logger != nil {
		s.logger.Info("session expired")
	}
	if s.onExpired != nil {
		s.onExpired()
	}
}

// ExpiresAt reads the exp claim of the current token without verifying it.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
