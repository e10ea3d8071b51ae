// Package lifecycle exposes vault events as a lifecycle.Source so they can be
// consumed by lifecycle-managed handlers.
package lifecycle

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/studynotes/pkg/core"
)

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTypes forwards only events of the given types. By default every type
// is forwarded.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *Source) {
		s.types = make(map[core.EventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
}

// WithOnDropped is called for every event the source filters out.
func WithOnDropped(fn func(core.Event)) SourceOption {
	return func(s *Source) {
		s.onDropped = fn
	}
}

// Source bridges the vault event channel to lifecycle.Event. Events without a
// note id never reach consumers.
type Source struct {
	events    <-chan core.Event
	out       chan lifecycle.Event
	types     map[core.EventType]bool
	onDropped func(core.Event)

	forwarded atomic.Int64
	dropped   atomic.Int64
}

// NewSource wraps a vault event channel. core.Event satisfies lifecycle.Event
// through its String method.
func NewSource(events <-chan core.Event, opts ...SourceOption) *Source {
	s := &Source{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events implements lifecycle.Source.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards matching events until ctx ends or the vault channel closes,
// then closes the output.
func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.accepts(e) {
					s.dropped.Add(1)
					if s.onDropped != nil {
						s.onDropped(e)
					}
					continue
				}
				select {
				case s.out <- e:
					s.forwarded.Add(1)
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *Source) accepts(e core.Event) bool {
	if e.ID == "" {
		return false
	}
	return s.types == nil || s.types[e.Type]
}

// SourceState exposes internal state for observability.
type SourceState struct {
	Forwarded int64 `json:"forwarded"`
	Dropped   int64 `json:"dropped"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	return SourceState{Forwarded: s.forwarded.Load(), Dropped: s.dropped.Load()}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "vault-source"
}

var (
	_ lifecycle.Source             = (*Source)(nil)
	_ introspection.Introspectable = (*Source)(nil)
	_ introspection.Component      = (*Source)(nil)
)
