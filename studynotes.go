package studynotes

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/studynotes/internal/platform"
	"github.com/aretw0/studynotes/pkg/core"
)

// --- Types ---

// App is the wired application.
type App = platform.App

// Config is the resolved configuration.
type Config = platform.Config

// Option defines a functional option for configuring the application.
type Option = platform.Option

// --- Configuration ---

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend injects a backend instead of the HTTP client.
func WithBackend(b core.Backend) Option {
	return platform.WithBackend(b)
}

// WithTokenStore replaces the file-backed token store.
func WithTokenStore(s core.TokenStore) Option {
	return platform.WithTokenStore(s)
}

// WithHTTPClient sets the transport of the HTTP backend.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithOnExpired is called when the session can no longer be refreshed.
func WithOnExpired(fn func()) Option {
	return platform.WithOnExpired(fn)
}

// WithDevSafety toggles the temp-dir sandbox used by `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the sandbox (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// --- Factory ---

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// LoadConfig resolves configuration for the working directory dir.
func LoadConfig(dir string) (Config, error) {
	return platform.LoadConfig(dir)
}

// New wires an application from cfg.
func New(cfg Config, opts ...Option) (*App, error) {
	return platform.New(cfg, opts...)
}

// --- Utilities ---

// FindRoot returns the nearest directory holding studynotes.yaml or .studynotes.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// IsDevRun reports whether the process runs under `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
