package typed

import (
	"time"

	"github.com/aretw0/introspection"
)

// PanelState exposes internal state for observability.
type PanelState struct {
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Attempts  int        `json:"attempts"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// State implements introspection.Introspectable.
func (p *Panel[T]) State() any {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := PanelState{
		Name:     p.name,
		Status:   p.status.String(),
		Attempts: p.attempts,
	}
	if p.err != nil {
		s.Error = p.err.Error()
	}
	if !p.updatedAt.IsZero() {
		t := p.updatedAt
		s.UpdatedAt = &t
	}
	return s
}

// ComponentType implements introspection.Component.
func (p *Panel[T]) ComponentType() string {
	return "artifact-panel"
}

var _ introspection.Introspectable = (*Panel[string])(nil)
var _ introspection.Component = (*Panel[string])(nil)
