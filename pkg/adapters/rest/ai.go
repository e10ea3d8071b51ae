package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/studynotes/pkg/core"
)

func artifactCall(kind core.ArtifactKind, noteID string) call {
	return call{
		method: http.MethodGet,
		path:   "/ai/" + string(kind) + "/{id}",
		params: idParam(noteID),
	}
}

// Summary requests a fresh summary of a note.
func (c *Client) Summary(ctx context.Context, noteID string) (*core.Summary, error) {
	var out core.Summary
	if err := c.do(ctx, artifactCall(core.ArtifactSummary, noteID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Explanation requests a fresh explanation of a note.
func (c *Client) Explanation(ctx context.Context, noteID string) (*core.Explanation, error) {
	var out core.Explanation
	if err := c.do(ctx, artifactCall(core.ArtifactExplanation, noteID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quiz requests a freshly generated quiz. The backend assigns the quiz id.
func (c *Client) Quiz(ctx context.Context, noteID string) (*core.Quiz, error) {
	var out core.Quiz
	if err := c.do(ctx, artifactCall(core.ArtifactQuiz, noteID), &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("quiz response carried no quiz id")
	}
	return &out, nil
}

// Flashcards requests a fresh flashcard set.
func (c *Client) Flashcards(ctx context.Context, noteID string) ([]core.Flashcard, error) {
	var out struct {
		Flashcards []core.Flashcard `json:"flashcards"`
	}
	if err := c.do(ctx, artifactCall(core.ArtifactFlashcards, noteID), &out); err != nil {
		return nil, err
	}
	return out.Flashcards, nil
}

// RecordAttempt posts one answered question.
func (c *Client) RecordAttempt(ctx context.Context, a core.QuizAttempt) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/quiz/attempt/{id}",
		params: idParam(a.QuizID),
		build:  jsonBody(a),
	}, nil)
}
