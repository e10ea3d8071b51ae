package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service handles the business logic in front of the Backend:
// input validation, session bookkeeping and error classification.
type Service struct {
	backend  Backend
	session  *Session
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(backend Backend, session *Session, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		backend:  backend,
		session:  session,
		validate: validate,
		logger:   logger,
	}
}

// Session returns the session the Service writes to.
func (s *Service) Session() *Session {
	return s.session
}

// --- Auth ---

// Register creates an account. It does not log in.
func (s *Service) Register(ctx context.Context, r Registration) error {
	if err := s.check(r); err != nil {
		return err
	}
	return classify(ErrMutation, "register", s.backend.Register(ctx, r))
}

// Login authenticates, stores the token and loads the profile.
func (s *Service) Login(ctx context.Context, c Credentials) (*User, error) {
	if err := s.check(c); err != nil {
		return nil, err
	}
	token, err := s.backend.Login(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.session.SetToken(token); err != nil {
		return nil, err
	}
	user, err := s.backend.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	s.session.SetUser(user)
	return user, nil
}

// Logout invalidates the session server-side (best effort) and always clears it locally.
func (s *Service) Logout(ctx context.Context) error {
	defer s.session.Teardown()
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed", "error", err)
	}
	return nil
}

// Restore hydrates the session from the persisted token.
func (s *Service) Restore(ctx context.Context) error {
	return s.session.Hydrate(ctx, s.backend.Me)
}

// Me reloads the current user.
func (s *Service) Me(ctx context.Context) (*User, error) {
	user, err := s.backend.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.session.SetUser(user)
	return user, nil
}

// ForgotPassword asks the backend to send a reset link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Fields: map[string]string{"email": "a valid email is required"}}
	}
	return classify(ErrMutation, "forgot password", s.backend.ForgotPassword(ctx, email))
}

// ResetPassword sets a new password using the emailed token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	fields := map[string]string{}
	if strings.TrimSpace(token) == "" {
		fields["token"] = "is required"
	}
	if strings.TrimSpace(password) == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return classify(ErrMutation, "reset password", s.backend.ResetPassword(ctx, token, password))
}

// --- Notes ---

// CreateNote validates and creates a note.
func (s *Service) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	n, err := s.backend.CreateNote(ctx, in)
	return n, classify(ErrMutation, "create note", err)
}

// GetNote fetches a note by id.
func (s *Service) GetNote(ctx context.Context, id string) (*Note, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	n, err := s.backend.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	return n, nil
}

// UpdateNote validates and saves a note.
func (s *Service) UpdateNote(ctx context.Context, id string, in NoteInput) (*Note, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	n, err := s.backend.UpdateNote(ctx, id, in)
	return n, classify(ErrMutation, "update note", err)
}

// TrashNote moves a note to the trash.
func (s *Service) TrashNote(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return classify(ErrMutation, "trash note", s.backend.TrashNote(ctx, id))
}

// RestoreNote brings a note back from the trash.
func (s *Service) RestoreNote(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return classify(ErrMutation, "restore note", s.backend.RestoreNote(ctx, id))
}

// PurgeNote deletes a note permanently.
func (s *Service) PurgeNote(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return classify(ErrMutation, "purge note", s.backend.PurgeNote(ctx, id))
}

// ListNotes returns one page of live notes.
func (s *Service) ListNotes(ctx context.Context, page, limit int) (*NotePage, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	return s.backend.ListNotes(ctx, page, limit)
}

// ListTrash returns one page of trashed notes.
func (s *Service) ListTrash(ctx context.Context, page, limit int) (*NotePage, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	return s.backend.ListTrash(ctx, page, limit)
}

// SearchNotes runs a full-text search. Results are not paginated.
func (s *Service) SearchNotes(ctx context.Context, query string) ([]Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Fields: map[string]string{"query": "is required"}}
	}
	return s.backend.SearchNotes(ctx, query)
}

// NotesBySubject lists the notes filed under a subject.
func (s *Service) NotesBySubject(ctx context.Context, subjectID string) ([]Note, error) {
	if err := requireID(subjectID); err != nil {
		return nil, err
	}
	return s.backend.NotesBySubject(ctx, subjectID)
}

// ExportPDF returns the URL of the rendered PDF.
func (s *Service) ExportPDF(ctx context.Context, id string) (string, error) {
	if err := requireID(id); err != nil {
		return "", err
	}
	url, err := s.backend.ExportPDF(ctx, id)
	return url, classify(ErrMutation, "export pdf", err)
}

// --- Subjects ---

// CreateSubject creates a subject label.
func (s *Service) CreateSubject(ctx context.Context, name string) (*Subject, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Fields: map[string]string{"subject": "is required"}}
	}
	sub, err := s.backend.CreateSubject(ctx, strings.TrimSpace(name))
	return sub, classify(ErrMutation, "create subject", err)
}

// ListSubjects returns all subjects.
func (s *Service) ListSubjects(ctx context.Context) ([]Subject, error) {
	return s.backend.ListSubjects(ctx)
}

// DeleteSubject deletes a subject. Notes that reference it are left alone.
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return classify(ErrMutation, "delete subject", s.backend.DeleteSubject(ctx, id))
}

// --- Generators ---

// Summary generates a summary for a note.
func (s *Service) Summary(ctx context.Context, noteID string) (*Summary, error) {
	if err := requireID(noteID); err != nil {
		return nil, err
	}
	v, err := s.backend.Summary(ctx, noteID)
	return v, classify(ErrGeneration, "summary", err)
}

// Explanation generates an explanation for a note.
func (s *Service) Explanation(ctx context.Context, noteID string) (*Explanation, error) {
	if err := requireID(noteID); err != nil {
		return nil, err
	}
	v, err := s.backend.Explanation(ctx, noteID)
	return v, classify(ErrGeneration, "explanation", err)
}

// Quiz generates a fresh quiz for a note.
func (s *Service) Quiz(ctx context.Context, noteID string) (*Quiz, error) {
	if err := requireID(noteID); err != nil {
		return nil, err
	}
	v, err := s.backend.Quiz(ctx, noteID)
	return v, classify(ErrGeneration, "quiz", err)
}

// Flashcards generates a flashcard set for a note.
func (s *Service) Flashcards(ctx context.Context, noteID string) ([]Flashcard, error) {
	if err := requireID(noteID); err != nil {
		return nil, err
	}
	v, err := s.backend.Flashcards(ctx, noteID)
	return v, classify(ErrGeneration, "flashcards", err)
}

// RecordAttempt forwards a quiz attempt. Callers treat failures as telemetry.
func (s *Service) RecordAttempt(ctx context.Context, a QuizAttempt) error {
	return s.backend.RecordAttempt(ctx, a)
}

// --- Uploads & profile ---

// UploadImage uploads an image and returns its URL.
func (s *Service) UploadImage(ctx context.Context, name string, r io.Reader) (string, error) {
	url, err := s.backend.UploadImage(ctx, name, r)
	return url, classify(ErrMutation, "upload image", err)
}

// UploadPDF uploads a PDF and returns its URL.
func (s *Service) UploadPDF(ctx context.Context, name string, r io.Reader) (string, error) {
	url, err := s.backend.UploadPDF(ctx, name, r)
	return url, classify(ErrMutation, "upload pdf", err)
}

// UploadProfileImage uploads a profile picture and returns its URL.
func (s *Service) UploadProfileImage(ctx context.Context, name string, r io.Reader) (string, error) {
	url, err := s.backend.UploadProfileImage(ctx, name, r)
	return url, classify(ErrMutation, "upload profile image", err)
}

// Profile returns the user profile.
func (s *Service) Profile(ctx context.Context) (*User, error) {
	return s.backend.GetProfile(ctx)
}

// UpdateProfile saves profile changes and refreshes the session user.
func (s *Service) UpdateProfile(ctx context.Context, p ProfileUpdate) (*User, error) {
	u, err := s.backend.UpdateProfile(ctx, p)
	if err != nil {
		return nil, classify(ErrMutation, "update profile", err)
	}
	s.session.SetUser(u)
	return u, nil
}

// check runs struct validation and converts the result into a ValidationError.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "is invalid"
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Fields: map[string]string{"id": "is required"}}
	}
	return nil
}

func checkPage(page, limit int) error {
	fields := map[string]string{}
	if page < 1 {
		fields["page"] = "must be >= 1"
	}
	if limit < 1 {
		fields["limit"] = "must be >= 1"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
