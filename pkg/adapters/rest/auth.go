package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/aretw0/studynotes/pkg/core"
)

// Register creates a new account.
func (c *Client) Register(ctx context.Context, r core.Registration) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/register", build: jsonBody(r)}, nil)
}

// Login authenticates and returns the access token.
// The refresh token arrives as a cookie and stays in the client's jar.
func (c *Client) Login(ctx context.Context, creds core.Credentials) (string, error) {
	var out tokenEnvelope
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", build: jsonBody(creds)}, &out); err != nil {
		return "", err
	}
	token := out.token()
	if token == "" {
		return "", errors.New("login response carried no access token")
	}
	return token, nil
}

// Logout invalidates the refresh token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout"}, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*core.User, error) {
	var out userEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		build:  jsonBody(map[string]string{"email": email}),
	}, nil)
}

// ResetPassword sets a new password using the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/reset-password/{token}",
		params: map[string]string{"token": token},
		build:  jsonBody(map[string]string{"password": password}),
	}, nil)
}

// GetProfile returns the stored profile.
func (c *Client) GetProfile(ctx context.Context) (*core.User, error) {
	var out userEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/user/getProfile"}, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}

// UpdateProfile saves profile changes.
func (c *Client) UpdateProfile(ctx context.Context, p core.ProfileUpdate) (*core.User, error) {
	var out userEnvelope
	if err := c.do(ctx, call{method: http.MethodPut, path: "/user/updateUser", build: jsonBody(p)}, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}

// userEnvelope accepts {user:{…}}, {data:{…}} and a bare user object.
type userEnvelope struct {
	core.User
	Wrapped *core.User `json:"user"`
	Data    *core.User `json:"data"`
}

func (u userEnvelope) user() *core.User {
	switch {
	case u.Wrapped != nil:
		return u.Wrapped
	case u.Data != nil:
		return u.Data
	}
	user := u.User
	return &user
}

func jsonBody(v any) func(r *resty.Request) {
	return func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(v)
	}
}
