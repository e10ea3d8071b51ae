package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// SessionState exposes internal state for observability.
type SessionState struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Persistent    bool       `json:"persistent"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	st := SessionState{
		Authenticated: s.Authenticated(),
		Persistent:    s.store != nil,
	}
	if u := s.User(); u != nil {
		st.Username = u.Username
	}
	if exp, ok := s.ExpiresAt(); ok {
		st.ExpiresAt = &exp
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	BackendType string       `json:"backend_type"`
	Session     SessionState `json:"session"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	backendType := "backend"
	if comp, ok := s.backend.(introspection.Component); ok {
		backendType = comp.ComponentType()
	}
	return ServiceState{
		BackendType: backendType,
		Session:     s.session.State().(SessionState),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
