// Package quiz drives a user through a generated quiz, one question at a
// time, and keeps the flip state of a flashcard deck.
//
// A Session moves through four states:
//
//	Idle -> AwaitingAnswer(i) -> AnswerRevealed(i) -> AwaitingAnswer(i+1) | Finished
//
// There is no backward navigation and an answer, once submitted, cannot be
// changed. Every answer is recorded on the backend in the background; that
// record is telemetry and never affects the score or the progression.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/aretw0/studynotes/pkg/core"
)

var (
	// ErrEmptyQuiz is returned when a quiz has no questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrInvalidTransition is returned when an operation is not valid in the current state.
	ErrInvalidTransition = errors.New("invalid quiz transition")
	// ErrSuperseded is returned to a Start or Restart whose result arrived
	// after a newer one was issued. The result is discarded.
	ErrSuperseded = errors.New("quiz generation superseded")
)

// Status is the state of a Session.
type Status int

const (
	StatusIdle Status = iota
	StatusAwaitingAnswer
	StatusAnswerRevealed
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAwaitingAnswer:
		return "awaiting-answer"
	case StatusAnswerRevealed:
		return "answer-revealed"
	case StatusFinished:
		return "finished"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Generator produces a fresh quiz for a note. core.Service satisfies it.
type Generator interface {
	Quiz(ctx context.Context, noteID string) (*core.Quiz, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for attempt-record failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRecorder sets where answered questions are recorded. Without one,
// answers are only scored locally.
func WithRecorder(r core.AttemptRecorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// Session is the quiz state machine for one note. It is safe for concurrent use.
type Session struct {
	id       string
	noteID   string
	gen      Generator
	recorder core.AttemptRecorder
	logger   *slog.Logger

	mu     sync.Mutex
	quiz   *core.Quiz
	status Status
	index  int
	chosen string
	score  int
	seq    uint64 // bumped by every Load/Start/Restart

	records  sync.WaitGroup
	pending  atomic.Int64
	recorded atomic.Int64
	failed   atomic.Int64
}

// New creates an idle session for noteID.
func New(noteID string, gen Generator, opts ...Option) *Session {
	id, err := gonanoid.New()
	if err != nil {
		id = "quiz-" + noteID
	}
	s := &Session{
		id:     id,
		noteID: noteID,
		gen:    gen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("quiz_session", s.id)
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Load installs q and moves to AwaitingAnswer(0) with a zero score.
// An empty quiz is rejected and the state is left unchanged.
func (s *Session) Load(q *core.Quiz) error {
	if q == nil || len(q.Questions) == 0 {
		return ErrEmptyQuiz
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.install(q)
	return nil
}

func (s *Session) install(q *core.Quiz) {
	s.quiz = q
	s.status = StatusAwaitingAnswer
	s.index = 0
	s.chosen = ""
	s.score = 0
}

func (s *Session) reset() {
	s.quiz = nil
	s.status = StatusIdle
	s.index = 0
	s.chosen = ""
	s.score = 0
}

// Start requests a freshly generated quiz and loads it. On failure the
// session is Idle and the error is returned.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	return s.generate(ctx, seq)
}

// Restart is Start from Finished. The new quiz is freshly generated and may
// differ from the previous one.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusFinished {
		status := s.status
		s.mu.Unlock()
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, status)
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	return s.generate(ctx, seq)
}

func (s *Session) generate(ctx context.Context, seq uint64) error {
	q, err := s.gen.Quiz(ctx, s.noteID)
	if err == nil && (q == nil || len(q.Questions) == 0) {
		err = ErrEmptyQuiz
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("discarding stale quiz", "note", s.noteID)
		return ErrSuperseded
	}
	if err != nil {
		s.reset()
		return err
	}
	s.install(q)
	s.logger.Debug("quiz loaded", "quiz", q.ID, "questions", len(q.Questions))
	return nil
}

// Answer is the outcome of a submitted question.
type Answer struct {
	Index         int
	Chosen        string
	CorrectAnswer string
	Correct       bool
}

// Submit answers the current question. A repeated call before Advance is a
// no-op that returns the recorded answer. The attempt is recorded in the
// background on a context detached from ctx's cancellation.
func (s *Session) Submit(ctx context.Context, option string) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusAnswerRevealed:
		return s.answer(), nil
	case StatusAwaitingAnswer:
	default:
		return Answer{}, fmt.Errorf("%w: submit in %s", ErrInvalidTransition, s.status)
	}

	q := s.quiz.Questions[s.index]
	s.chosen = option
	s.status = StatusAnswerRevealed
	if option == q.CorrectAnswer {
		s.score++
	}

	s.record(ctx, core.QuizAttempt{
		QuizID:        s.quiz.ID,
		QuestionIndex: s.index,
		Answer:        option,
		CorrectAnswer: q.CorrectAnswer,
	})
	return s.answer(), nil
}

func (s *Session) answer() Answer {
	correct := s.quiz.Questions[s.index].CorrectAnswer
	return Answer{
		Index:         s.index,
		Chosen:        s.chosen,
		CorrectAnswer: correct,
		Correct:       s.chosen == correct,
	}
}

func (s *Session) record(ctx context.Context, a core.QuizAttempt) {
	if s.recorder == nil {
		return
	}
	s.records.Add(1)
	s.pending.Add(1)
	lifecycle.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		defer s.records.Done()
		defer s.pending.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				s.failed.Add(1)
				s.logger.Error("quiz attempt recorder panic", "quiz", a.QuizID, "panic", r)
			}
		}()
		if err := s.recorder.RecordAttempt(ctx, a); err != nil {
			s.failed.Add(1)
			s.logger.Warn("failed to record quiz attempt",
				"quiz", a.QuizID,
				"index", a.QuestionIndex,
				"error", err,
			)
			return nil
		}
		s.recorded.Add(1)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("quiz attempt record", "quiz", a.QuizID, "error", err)
	}))
}

// Advance moves past a revealed answer to the next question, or to Finished
// after the last one.
func (s *Session) Advance() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusAnswerRevealed {
		return s.view(), fmt.Errorf("%w: advance in %s", ErrInvalidTransition, s.status)
	}
	if s.index+1 < len(s.quiz.Questions) {
		s.index++
		s.chosen = ""
		s.status = StatusAwaitingAnswer
	} else {
		s.status = StatusFinished
		s.logger.Debug("quiz finished", "score", s.score, "total", len(s.quiz.Questions))
	}
	return s.view(), nil
}

// Pending returns the number of attempt records still in flight.
func (s *Session) Pending() int {
	return int(s.pending.Load())
}

// Wait blocks until every background attempt record has completed.
func (s *Session) Wait() {
	s.records.Wait()
}
