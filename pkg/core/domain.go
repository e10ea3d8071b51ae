// Package core holds the study-notes domain: entities, ports, the session
// context and the Service that sits between callers and the backend.
package core

import (
	"encoding/json"
	"time"
)

// User is the authenticated account as returned by the backend.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Note is the central entity of the domain.
// Content has two representations: HTML for rendering and PDF export, and a
// structured document tree kept opaque for round-trip editing.
type Note struct {
	ID        string          `json:"_id"`
	Title     string          `json:"title"`
	SubjectID string          `json:"subjectId"`
	HTML      string          `json:"html"`
	Doc       json.RawMessage `json:"json,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	IsDeleted bool            `json:"isDeleted"`
}

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	Title     string          `json:"title" validate:"required"`
	SubjectID string          `json:"subjectId" validate:"required"`
	HTML      string          `json:"html"`
	Doc       json.RawMessage `json:"json,omitempty"`
}

// NotePage is one page of a paginated note listing.
type NotePage struct {
	Notes      []Note `json:"notes"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

// Subject is a grouping label for notes.
type Subject struct {
	ID   string `json:"_id"`
	Name string `json:"subject"`
}

// Question is a single multiple-choice question.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Valid reports whether the correct answer is one of the options.
func (q Question) Valid() bool {
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			return true
		}
	}
	return false
}

// Quiz is a freshly generated, ordered set of questions.
type Quiz struct {
	ID        string     `json:"quizId"`
	Questions []Question `json:"questions"`
}

// QuizAttempt is the write-only record of one answered question.
type QuizAttempt struct {
	QuizID        string `json:"-"`
	QuestionIndex int    `json:"quizIndex"`
	Answer        string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Flashcard is an independent front/back study card.
type Flashcard struct {
	ID     string `json:"_id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
	NoteID string `json:"noteId"`
}

// Summary is a generated summary of a note.
type Summary struct {
	Text string `json:"summary"`
}

// Explanation is a generated explanation of a note.
type Explanation struct {
	Text string `json:"explanation"`
}

// ArtifactKind names one of the AI-generated study aids.
type ArtifactKind string

const (
	ArtifactSummary     ArtifactKind = "summary"
	ArtifactExplanation ArtifactKind = "explanation"
	ArtifactQuiz        ArtifactKind = "quiz"
	ArtifactFlashcards  ArtifactKind = "flashcards"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// EventType represents the type of change in the local vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the local vault.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}
