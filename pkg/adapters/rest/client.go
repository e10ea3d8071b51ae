// Package rest implements the core ports over the study-notes HTTP API.
//
// The Client attaches the bearer token to every non-public endpoint and
// applies a single-retry session refresh policy: a 401 triggers exactly one
// silent POST /auth/refresh; on success the original request is rebuilt and
// replayed once. When the backend rejects the refresh the session is expired
// and ErrSessionExpired is returned; a cancelled caller or an unreachable
// backend leaves the session alone. The refresh token itself travels as a
// cookie held by the client's cookie jar.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/aretw0/studynotes/pkg/core"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000/api/v1"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// publicPrefixes never carry a bearer token and are never refreshed.
var publicPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
	"/auth/forgot-password",
	"/auth/reset-password",
}

// Credentials is the token holder the client reads from and writes to.
// core.Session implements it.
type Credentials interface {
	Token() string
	SetToken(token string) error
	Expire()
}

// Config holds the configuration for the REST client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
	// HTTPClient overrides the underlying transport (tests).
	HTTPClient *http.Client
	// CookieJar holds the refresh cookie. Without one an in-memory jar is
	// used and the cookie dies with the process.
	CookieJar http.CookieJar
}

// errNoAccessToken reports a refresh answer without a token.
var errNoAccessToken = errors.New("refresh response carried no access token")

// Client implements core.Backend over HTTP.
type Client struct {
	http      *resty.Client
	creds     Credentials
	baseURL   string
	logger    *slog.Logger
	refresh   singleflight.Group
	requests  atomic.Int64
	replays   atomic.Int64
	refreshes atomic.Int64
}

// New creates a client for config.BaseURL using creds for the bearer token.
func New(config Config, creds Credentials) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	var rc *resty.Client
	if config.HTTPClient != nil {
		rc = resty.NewWithClient(config.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(config.BaseURL, "/"))
	if config.Timeout > 0 {
		rc.SetTimeout(config.Timeout)
	}
	rc.SetHeader("Accept", "application/json")
	if config.CookieJar != nil {
		rc.SetCookieJar(config.CookieJar)
	}

	return &Client{
		http:    rc,
		creds:   creds,
		baseURL: config.BaseURL,
		logger:  config.Logger,
	}
}

// call describes one logical request. build is invoked for every attempt so
// bodies and readers are fresh on replay.
type call struct {
	method string
	path   string // may contain {param} placeholders
	params map[string]string
	build  func(r *resty.Request)
}

// isPublic reports whether path is one of the unauthenticated endpoints.
func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// do executes c, applying the refresh policy, and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	sent := c.creds.Token()
	resp, err := c.send(ctx, cl, sent)
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusUnauthorized && !isPublic(cl.path) {
		token, rerr := c.creds.Token(), error(nil)
		// A concurrent caller may already have refreshed.
		if token == "" || token == sent {
			token, rerr = c.refreshToken(ctx)
		}
		if rerr != nil {
			if !refreshRejected(rerr) {
				return fmt.Errorf("session refresh: %w", rerr)
			}
			c.logger.Warn("session refresh failed", "path", cl.path, "error", rerr)
			c.creds.Expire()
			return fmt.Errorf("%w: %w", core.ErrSessionExpired, rerr)
		}
		c.replays.Add(1)
		c.logger.Debug("replaying request after refresh", "method", cl.method, "path", cl.path)
		resp, err = c.send(ctx, cl, token)
		if err != nil {
			return err
		}
	}

	if resp.IsError() {
		return toAPIError(cl, resp)
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", cl.method, cl.path, err)
	}
	return nil
}

// send performs a single HTTP exchange.
func (c *Client) send(ctx context.Context, cl call, token string) (*resty.Response, error) {
	c.requests.Add(1)
	r := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if token != "" && !isPublic(cl.path) {
		r.SetAuthToken(token)
	}
	if len(cl.params) > 0 {
		r.SetPathParams(cl.params)
	}
	if cl.build != nil {
		cl.build(r)
	}

	resp, err := r.Execute(cl.method, cl.path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	c.logger.Debug("request done",
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)
	return resp, nil
}

// refreshToken exchanges the refresh cookie for a new access token.
// Concurrent callers share one refresh request. The shared request is detached
// from any single caller's cancellation; each caller stops waiting when its
// own ctx ends.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	ch := c.refresh.DoChan("refresh", func() (any, error) {
		return c.exchangeRefresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) exchangeRefresh(ctx context.Context) (string, error) {
	c.refreshes.Add(1)
	var out tokenEnvelope
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/refresh", build: func(r *resty.Request) {
		r.SetBody(map[string]any{})
	}}, &out); err != nil {
		return "", err
	}
	token := out.token()
	if token == "" {
		return "", errNoAccessToken
	}
	if err := c.creds.SetToken(token); err != nil {
		return "", err
	}
	return token, nil
}

// refreshRejected reports whether err means the backend refused the refresh
// cookie, as opposed to the exchange never completing.
func refreshRejected(err error) bool {
	if errors.Is(err, errNoAccessToken) {
		return true
	}
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

// toAPIError builds a core.APIError from a failed response.
func toAPIError(cl call, resp *resty.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(resp.Body(), &body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	return &core.APIError{
		Status:  resp.StatusCode(),
		Method:  cl.method,
		Path:    cl.path,
		Message: msg,
	}
}

// tokenEnvelope accepts both {accessToken} and {data:{accessToken}}.
type tokenEnvelope struct {
	AccessToken string `json:"accessToken"`
	Data        struct {
		AccessToken string `json:"accessToken"`
	} `json:"data"`
}

func (t tokenEnvelope) token() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Data.AccessToken
}

var _ core.Backend = (*Client)(nil)
