package quiz

import (
	"slices"

	"github.com/aretw0/studynotes/pkg/core"
)

// View is an immutable snapshot of a Session.
type View struct {
	Status Status
	QuizID string
	Index  int
	Total  int
	Score  int
	// Question is nil unless a question is on screen.
	Question *core.Question
	// Chosen and Correct are set once the answer is revealed.
	Chosen  string
	Correct bool
}

// Revealed reports whether the current answer has been submitted.
func (v View) Revealed() bool {
	return v.Status == StatusAnswerRevealed
}

// View returns a snapshot of the session. Options keep the generator's order.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	v := View{Status: s.status, Score: s.score}
	if s.quiz == nil {
		return v
	}
	v.QuizID = s.quiz.ID
	v.Total = len(s.quiz.Questions)
	v.Index = s.index

	switch s.status {
	case StatusAwaitingAnswer, StatusAnswerRevealed:
		q := s.quiz.Questions[s.index]
		q.Options = slices.Clone(q.Options)
		v.Question = &q
	}
	if s.status == StatusAnswerRevealed {
		v.Chosen = s.chosen
		v.Correct = s.chosen == s.quiz.Questions[s.index].CorrectAnswer
	}
	return v
}
