package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/aretw0/studynotes/pkg/core"
)

type noteEnvelope struct {
	Note *core.Note `json:"note"`
	Data *core.Note `json:"data"`
}

func (e noteEnvelope) note() (*core.Note, error) {
	switch {
	case e.Note != nil:
		return e.Note, nil
	case e.Data != nil:
		return e.Data, nil
	}
	return nil, errors.New("response carried no note")
}

// notesEnvelope covers both listing shapes: {notes, totalPages} and
// {notes, pagination:{currentPage,totalPages}}.
type notesEnvelope struct {
	Notes      []core.Note `json:"notes"`
	TotalPages int         `json:"totalPages"`
	Pagination *struct {
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	} `json:"pagination"`
}

func (e notesEnvelope) page(requested int) *core.NotePage {
	p := &core.NotePage{Notes: e.Notes, Page: requested, TotalPages: e.TotalPages}
	if e.Pagination != nil {
		p.TotalPages = e.Pagination.TotalPages
		if e.Pagination.CurrentPage > 0 {
			p.Page = e.Pagination.CurrentPage
		}
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	return p
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, in core.NoteInput) (*core.Note, error) {
	var out noteEnvelope
	if err := c.do(ctx, call{method: http.MethodPost, path: "/note/create", build: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return out.note()
}

// GetNote fetches a note by id.
func (c *Client) GetNote(ctx context.Context, id string) (*core.Note, error) {
	var out noteEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/note/user/{id}", params: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return out.note()
}

// UpdateNote replaces the editable fields of a note.
func (c *Client) UpdateNote(ctx context.Context, id string, in core.NoteInput) (*core.Note, error) {
	var out noteEnvelope
	if err := c.do(ctx, call{method: http.MethodPut, path: "/note/update/{id}", params: idParam(id), build: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return out.note()
}

// TrashNote soft-deletes a note.
func (c *Client) TrashNote(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodPatch, path: "/note/delete/{id}", params: idParam(id)}, nil)
}

// RestoreNote brings a note back from the trash.
func (c *Client) RestoreNote(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodPatch, path: "/note/restore/{id}", params: idParam(id)}, nil)
}

// PurgeNote deletes a note permanently.
func (c *Client) PurgeNote(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/note/delete/permanently/{id}", params: idParam(id)}, nil)
}

// ListNotes returns one page of live notes.
func (c *Client) ListNotes(ctx context.Context, page, limit int) (*core.NotePage, error) {
	var out notesEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/note/all", build: pageQuery(page, limit)}, &out); err != nil {
		return nil, err
	}
	return out.page(page), nil
}

// ListTrash returns one page of trashed notes.
func (c *Client) ListTrash(ctx context.Context, page, limit int) (*core.NotePage, error) {
	var out notesEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/note/trashed", build: pageQuery(page, limit)}, &out); err != nil {
		return nil, err
	}
	return out.page(page), nil
}

// SearchNotes runs a full-text search.
func (c *Client) SearchNotes(ctx context.Context, query string) ([]core.Note, error) {
	var out notesEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/note/search", build: func(r *resty.Request) {
		r.SetQueryParam("q", query)
	}}, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// NotesBySubject lists the notes of one subject.
func (c *Client) NotesBySubject(ctx context.Context, subjectID string) ([]core.Note, error) {
	var out notesEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/note/note/subject/{id}", params: idParam(subjectID)}, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// ExportPDF asks the backend to render the note and returns the PDF URL.
func (c *Client) ExportPDF(ctx context.Context, id string) (string, error) {
	var out struct {
		PDFURL string `json:"pdfUrl"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/note/pdf/{id}", params: idParam(id)}, &out); err != nil {
		return "", err
	}
	if out.PDFURL == "" {
		return "", errors.New("response carried no pdf url")
	}
	return out.PDFURL, nil
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

func pageQuery(page, limit int) func(r *resty.Request) {
	return func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(limit),
		})
	}
}
