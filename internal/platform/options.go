package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/studynotes/pkg/core"
)

// options holds the wiring overrides for New.
type options struct {
	logger     *slog.Logger
	backend    core.Backend
	tokenStore core.TokenStore
	httpClient *http.Client
	onExpired  func()
	devSafety  bool
	forceTemp  bool
}

// Option defines a functional option for configuring the application.
type Option func(*options)

func defaultOptions() *options {
	return &options{devSafety: true}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend injects a core.Backend (e.g. a mock) instead of the HTTP client.
func WithBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithTokenStore replaces the file-backed token store.
func WithTokenStore(s core.TokenStore) Option {
	return func(o *options) {
		o.tokenStore = s
	}
}

// WithHTTPClient sets the transport used by the HTTP backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithOnExpired registers what happens when the session cannot be refreshed,
// typically sending the user back to login.
func WithOnExpired(fn func()) Option {
	return func(o *options) {
		o.onExpired = fn
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// Enabled by default: state and vault are re-rooted into a temp directory.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp always uses the sandbox, even outside development runs.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}
