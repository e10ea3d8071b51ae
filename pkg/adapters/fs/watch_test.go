package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/core"
)

func waitForWatcher(t *testing.T, v *fs.Vault, expected bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return v.State().(fs.VaultState).WatcherActive == expected
	}, 2*time.Second, 10*time.Millisecond, "watcher active = %v", expected)
}

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for vault event")
		return core.Event{}
	}
}

func TestVault_WatchReportsUserEditsOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := newVault(t)
	events, err := v.Watch(ctx, "*.md")
	require.NoError(t, err)
	waitForWatcher(t, v, true)

	// Our own export is not echoed back.
	_, err = v.Export(ctx, sampleNotes()[:1])
	require.NoError(t, err)

	// Files outside the pattern and inside the system dir are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(v.Path, "scratch.txt"), []byte("x"), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(v.Path, "c3.md"), []byte("---\nid: c3\ntitle: Draft\n---\n<p>hi</p>"), 0644))

	e := nextEvent(t, events)
	assert.Equal(t, "c3", e.ID)
	assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)

	require.NoError(t, os.Remove(filepath.Join(v.Path, "c3.md")))
	e = nextEvent(t, events)
	assert.Equal(t, "c3", e.ID)
	assert.Equal(t, core.EventDelete, e.Type)

	cancel()
	waitForWatcher(t, v, false)
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 6*time.Second, 20*time.Millisecond, "events channel closes after cancel")
}

func TestVault_WatchRejectsBadPattern(t *testing.T) {
	v := newVault(t)
	_, err := v.Watch(context.Background(), "[unclosed")
	assert.ErrorIs(t, err, core.ErrValidation)
}
