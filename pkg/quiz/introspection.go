package quiz

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes internal state for observability.
type SessionState struct {
	ID              string `json:"id"`
	NoteID          string `json:"note_id"`
	Status          string `json:"status"`
	QuizID          string `json:"quiz_id,omitempty"`
	Index           int    `json:"index"`
	Total           int    `json:"total"`
	Score           int    `json:"score"`
	RecordedAnswers int64  `json:"recorded_answers"`
	FailedRecords   int64  `json:"failed_records"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	v := s.View()
	return SessionState{
		ID:              s.id,
		NoteID:          s.noteID,
		Status:          v.Status.String(),
		QuizID:          v.QuizID,
		Index:           v.Index,
		Total:           v.Total,
		Score:           v.Score,
		RecordedAnswers: s.recorded.Load(),
		FailedRecords:   s.failed.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "quiz-session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
