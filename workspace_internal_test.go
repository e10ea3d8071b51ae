package studynotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/core"
)

func (w *Workspace) trackedSessions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}

func TestWorkspace_SessionsStayBounded(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ai/quiz/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"quizId": "q-" + r.PathValue("id"), "questions": []core.Question{
			{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		}})
	})
	mux.HandleFunc("POST /quiz/attempt/{id}", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.StateDir = t.TempDir()
	cfg.VaultDir = t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := New(cfg, WithLogger(logger), WithDevSafety(false))
	require.NoError(t, err)

	ws := NewWorkspace(app.Service, logger)
	ctx := context.Background()

	ws.SetNote("n0")
	first := ws.Quiz()
	require.NoError(t, first.Start(ctx))
	_, err = first.Submit(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Pending())

	for i := 1; i <= 20; i++ {
		ws.SetNote(fmt.Sprintf("n%d", i))
	}
	assert.Equal(t, 2, ws.trackedSessions(), "current quiz plus the one still recording")

	close(release)
	ws.Wait()
	assert.Equal(t, 0, first.Pending())
	assert.Equal(t, 1, ws.trackedSessions())

	ws.SetNote("last")
	assert.Equal(t, 1, ws.trackedSessions())
}
