package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/studynotes/pkg/core"
)

// CreateSubject creates a subject label.
func (c *Client) CreateSubject(ctx context.Context, name string) (*core.Subject, error) {
	var out struct {
		Data *core.Subject `json:"data"`
	}
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/subject/create",
		build:  jsonBody(map[string]string{"subject": name}),
	}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, errors.New("response carried no subject")
	}
	return out.Data, nil
}

// ListSubjects returns all subjects of the user.
func (c *Client) ListSubjects(ctx context.Context) ([]core.Subject, error) {
	var out struct {
		Data []core.Subject `json:"data"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/subject/all"}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// DeleteSubject removes a subject. What happens to its notes is up to the backend.
func (c *Client) DeleteSubject(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/subject/delete/{id}", params: idParam(id)}, nil)
}
