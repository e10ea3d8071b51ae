package core

import (
	"context"
	"io"
)

// AuthAPI covers the account endpoints.
type AuthAPI interface {
	Register(ctx context.Context, r Registration) error
	// Login returns the access token. The refresh token is kept by the transport.
	Login(ctx context.Context, c Credentials) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// NoteRepository defines the contract for storing and retrieving notes on the backend.
type NoteRepository interface {
	CreateNote(ctx context.Context, in NoteInput) (*Note, error)
	GetNote(ctx context.Context, id string) (*Note, error)
	UpdateNote(ctx context.Context, id string, in NoteInput) (*Note, error)

	// TrashNote soft-deletes a note; RestoreNote undoes it.
	TrashNote(ctx context.Context, id string) error
	RestoreNote(ctx context.Context, id string) error
	// PurgeNote removes a note permanently.
	PurgeNote(ctx context.Context, id string) error

	ListNotes(ctx context.Context, page, limit int) (*NotePage, error)
	ListTrash(ctx context.Context, page, limit int) (*NotePage, error)
	SearchNotes(ctx context.Context, query string) ([]Note, error)
	NotesBySubject(ctx context.Context, subjectID string) ([]Note, error)

	// ExportPDF returns the URL of an externally rendered PDF.
	ExportPDF(ctx context.Context, id string) (string, error)
}

// SubjectRepository manages subjects.
type SubjectRepository interface {
	CreateSubject(ctx context.Context, name string) (*Subject, error)
	ListSubjects(ctx context.Context) ([]Subject, error)
	DeleteSubject(ctx context.Context, id string) error
}

// Generator requests AI artifacts for a note. Every call yields a fresh artifact.
type Generator interface {
	Summary(ctx context.Context, noteID string) (*Summary, error)
	Explanation(ctx context.Context, noteID string) (*Explanation, error)
	Quiz(ctx context.Context, noteID string) (*Quiz, error)
	Flashcards(ctx context.Context, noteID string) ([]Flashcard, error)
}

// AttemptRecorder persists answered questions. Best-effort telemetry.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, a QuizAttempt) error
}

// Uploader sends files to hosted storage and returns their URL.
type Uploader interface {
	UploadImage(ctx context.Context, name string, r io.Reader) (string, error)
	UploadPDF(ctx context.Context, name string, r io.Reader) (string, error)
	UploadProfileImage(ctx context.Context, name string, r io.Reader) (string, error)
}

// ProfileAPI covers the user profile endpoints.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, p ProfileUpdate) (*User, error)
}

// Backend is everything the Service needs from the remote side.
type Backend interface {
	AuthAPI
	NoteRepository
	SubjectRepository
	Generator
	AttemptRecorder
	Uploader
	ProfileAPI
}

// TokenStore persists the bearer token across process restarts.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
