package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/adapters/lifecycle"
	"github.com/aretw0/studynotes/pkg/core"
)

func drain(t *testing.T, src *lifecycle.Source) []string {
	t.Helper()
	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				return got
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatal("source did not close")
			return nil
		}
	}
}

func TestSource_ForwardsUntilClosed(t *testing.T) {
	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventModify, ID: "n1"}
	in <- core.Event{Type: core.EventDelete, ID: "n2"}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	assert.Equal(t, []string{"MODIFY n1", "DELETE n2"}, drain(t, src))
	assert.Equal(t, lifecycle.SourceState{Forwarded: 2}, src.State())
}

func TestSource_FiltersTypesAndBlankIDs(t *testing.T) {
	in := make(chan core.Event, 4)
	in <- core.Event{Type: core.EventCreate, ID: "n1"}
	in <- core.Event{Type: core.EventDelete, ID: "n2"}
	in <- core.Event{Type: core.EventModify}
	in <- core.Event{Type: core.EventModify, ID: "n3"}
	close(in)

	var dropped []string
	src := lifecycle.NewSource(in,
		lifecycle.WithTypes(core.EventCreate, core.EventModify),
		lifecycle.WithOnDropped(func(e core.Event) { dropped = append(dropped, string(e.Type)) }),
	)
	require.NoError(t, src.Start(context.Background()))

	assert.Equal(t, []string{"CREATE n1", "MODIFY n3"}, drain(t, src))
	assert.Equal(t, []string{"DELETE", "MODIFY"}, dropped)
	assert.Equal(t, lifecycle.SourceState{Forwarded: 2, Dropped: 2}, src.State())
	assert.Equal(t, "vault-source", src.ComponentType())
}

func TestSource_StopsOnCancel(t *testing.T) {
	in := make(chan core.Event)
	ctx, cancel := context.WithCancel(context.Background())
	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	cancel()
	assert.Empty(t, drain(t, src))
}
