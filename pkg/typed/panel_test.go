package typed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/core"
	"github.com/aretw0/studynotes/pkg/typed"
)

func TestPanel_GenerateSuccess(t *testing.T) {
	calls := 0
	p := typed.NewPanel("summary", func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("summary #%d", calls), nil
	})

	assert.Equal(t, typed.StatusEmpty, p.Snapshot().Status)

	v, err := p.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "summary #1", v)

	snap := p.Snapshot()
	assert.Equal(t, typed.StatusReady, snap.Status)
	assert.Equal(t, "summary #1", snap.Value)
	assert.False(t, snap.UpdatedAt.IsZero())

	// Every call is a fresh artifact.
	v, err = p.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "summary #2", v)
}

func TestPanel_FailureDismissAndRetry(t *testing.T) {
	boom := errors.New("model unavailable")
	fail := true
	p := typed.NewPanel("explanation", func(ctx context.Context) (string, error) {
		if fail {
			return "", boom
		}
		return "ok", nil
	})

	_, err := p.Generate(context.Background())
	assert.ErrorIs(t, err, boom)
	snap := p.Snapshot()
	assert.Equal(t, typed.StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, boom)

	state := p.State().(typed.PanelState)
	assert.Equal(t, "failed", state.Status)
	assert.Equal(t, "model unavailable", state.Error)

	p.Dismiss()
	assert.Equal(t, typed.StatusEmpty, p.Snapshot().Status)
	assert.NoError(t, p.Snapshot().Err)

	_, err = p.Generate(context.Background())
	require.Error(t, err)

	fail = false
	v, err := p.Generate(context.Background())
	require.NoError(t, err, "a failed panel recovers by retrying")
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, p.State().(typed.PanelState).Attempts)
}

func TestPanel_RejectsConcurrentGenerate(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := typed.NewPanel("flashcards", func(ctx context.Context) ([]core.Flashcard, error) {
		close(started)
		<-release
		return []core.Flashcard{{ID: "c1"}}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := p.Generate(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, p.Busy())
	assert.Equal(t, typed.StatusLoading, p.Snapshot().Status)
	_, err := p.Generate(context.Background())
	assert.ErrorIs(t, err, core.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, p.Busy())
	assert.Len(t, p.Snapshot().Value, 1)
}

func TestPanel_ResetDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	p := typed.NewPanel("summary", func(ctx context.Context) (string, error) {
		started <- struct{}{}
		<-release
		return "for the old note", nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := p.Generate(context.Background())
		done <- err
	}()
	<-started

	p.Reset()
	assert.False(t, p.Busy(), "reset frees the panel for a new request")
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, typed.ErrStale)
	case <-time.After(2 * time.Second):
		t.Fatal("generate did not return")
	}
	snap := p.Snapshot()
	assert.Equal(t, typed.StatusEmpty, snap.Status)
	assert.Empty(t, snap.Value)
}
