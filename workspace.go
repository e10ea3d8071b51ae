package studynotes

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/studynotes/pkg/core"
	"github.com/aretw0/studynotes/pkg/quiz"
	"github.com/aretw0/studynotes/pkg/typed"
)

// Workspace bundles the study aids of one selected note: the summary,
// explanation and flashcard panels, the flashcard deck and a quiz session.
// Switching note resets everything and discards late results.
type Workspace struct {
	Summary     *typed.Panel[*core.Summary]
	Explanation *typed.Panel[*core.Explanation]
	Flashcards  *typed.Panel[[]core.Flashcard]
	Deck        *quiz.Deck

	svc    *core.Service
	logger *slog.Logger

	mu      sync.Mutex
	noteID  string
	session *quiz.Session
	// sessions holds the current quiz plus earlier ones with records in flight.
	sessions []*quiz.Session
}

// NewWorkspace creates an empty workspace. Call SetNote before generating.
func NewWorkspace(svc *core.Service, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Workspace{svc: svc, logger: logger, Deck: quiz.NewDeck()}
	w.Summary = typed.NewPanel("summary", func(ctx context.Context) (*core.Summary, error) {
		return svc.Summary(ctx, w.NoteID())
	})
	w.Explanation = typed.NewPanel("explanation", func(ctx context.Context) (*core.Explanation, error) {
		return svc.Explanation(ctx, w.NoteID())
	})
	w.Flashcards = typed.NewPanel("flashcards", func(ctx context.Context) ([]core.Flashcard, error) {
		return svc.Flashcards(ctx, w.NoteID())
	})
	return w
}

// NoteID returns the selected note.
func (w *Workspace) NoteID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.noteID
}

// SetNote selects a note and clears every panel, the deck and the quiz.
func (w *Workspace) SetNote(id string) {
	w.mu.Lock()
	w.noteID = id
	w.session = quiz.New(id, w.svc,
		quiz.WithRecorder(w.svc),
		quiz.WithLogger(w.logger),
	)
	w.prune()
	w.mu.Unlock()

	w.Summary.Reset()
	w.Explanation.Reset()
	w.Flashcards.Reset()
	w.Deck.Load(nil)
	w.logger.Debug("workspace note selected", "note_id", id)
}

// Quiz returns the quiz session of the selected note, or nil before SetNote.
func (w *Workspace) Quiz() *quiz.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// LoadFlashcards generates a fresh set of cards and deals them into the deck.
func (w *Workspace) LoadFlashcards(ctx context.Context) ([]core.Flashcard, error) {
	cards, err := w.Flashcards.Generate(ctx)
	if err != nil {
		return nil, err
	}
	w.Deck.Load(cards)
	return cards, nil
}

// Wait blocks until every attempt record started by any quiz of this
// workspace has finished.
func (w *Workspace) Wait() {
	w.mu.Lock()
	sessions := append([]*quiz.Session(nil), w.sessions...)
	w.mu.Unlock()
	for _, s := range sessions {
		s.Wait()
	}

	w.mu.Lock()
	w.prune()
	w.mu.Unlock()
}

// prune drops earlier sessions whose records have all finished. Callers hold mu.
func (w *Workspace) prune() {
	kept := w.sessions[:0]
	for _, s := range w.sessions {
		if s != w.session && s.Pending() > 0 {
			kept = append(kept, s)
		}
	}
	clear(w.sessions[len(kept):])
	w.sessions = kept
	if w.session != nil {
		w.sessions = append(w.sessions, w.session)
	}
}

// Components lists the introspectable parts of the workspace.
func (w *Workspace) Components() []introspection.Component {
	out := []introspection.Component{w.Summary, w.Explanation, w.Flashcards}
	if s := w.Quiz(); s != nil {
		out = append(out, s)
	}
	return out
}
