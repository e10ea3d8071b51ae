// Package typed provides Panel, a generic holder for one generated artifact
// (a summary, an explanation, a flashcard set) and the request that
// produces it.
package typed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/studynotes/pkg/core"
)

// ErrStale is returned by a Generate whose panel was reset while the
// request was in flight. The late result is dropped.
var ErrStale = errors.New("panel was reset, result discarded")

// Status is the lifecycle of a Panel.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Fetch produces a fresh artifact.
type Fetch[T any] func(ctx context.Context) (T, error)

// Snapshot is a copy of the panel's state.
type Snapshot[T any] struct {
	Status    Status
	Value     T
	Err       error
	UpdatedAt time.Time
}

// Panel allows a single request at a time and keeps the latest outcome.
// A failure stays visible until dismissed or retried.
type Panel[T any] struct {
	name  string
	fetch Fetch[T]

	mu        sync.Mutex
	status    Status
	value     T
	err       error
	updatedAt time.Time
	inflight  bool
	gen       uint64
	attempts  int
}

// NewPanel creates an empty panel.
func NewPanel[T any](name string, fetch Fetch[T]) *Panel[T] {
	return &Panel[T]{name: name, fetch: fetch}
}

// Generate runs the fetch and stores its outcome. It fails with
// core.ErrBusy while another Generate is in flight.
func (p *Panel[T]) Generate(ctx context.Context) (T, error) {
	var zero T

	p.mu.Lock()
	if p.inflight {
		p.mu.Unlock()
		return zero, fmt.Errorf("%s: %w", p.name, core.ErrBusy)
	}
	p.inflight = true
	p.status = StatusLoading
	p.err = nil
	p.attempts++
	gen := p.gen
	p.mu.Unlock()

	v, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return zero, ErrStale
	}
	p.inflight = false
	p.updatedAt = time.Now()
	if err != nil {
		p.status = StatusFailed
		p.value = zero
		p.err = err
		return zero, err
	}
	p.status = StatusReady
	p.value = v
	return v, nil
}

// Dismiss clears a failure. It has no effect in any other status.
func (p *Panel[T]) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusFailed {
		p.status = StatusEmpty
		p.err = nil
	}
}

// Reset empties the panel and invalidates any request in flight.
func (p *Panel[T]) Reset() {
	var zero T
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.inflight = false
	p.status = StatusEmpty
	p.value = zero
	p.err = nil
	p.updatedAt = time.Time{}
}

// Busy reports whether a request is in flight.
func (p *Panel[T]) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight
}

// Snapshot returns the current state.
func (p *Panel[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot[T]{
		Status:    p.status,
		Value:     p.value,
		Err:       p.err,
		UpdatedAt: p.updatedAt,
	}
}
