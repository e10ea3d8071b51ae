package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/introspection"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/adapters/rest"
	"github.com/aretw0/studynotes/pkg/core"
)

// App is the wired application.
type App struct {
	Config  Config
	Logger  *slog.Logger
	Session *core.Session
	Service *core.Service
	Tokens  core.TokenStore
	Vault   *fs.Vault
	// Cookies is nil when a backend was injected with WithBackend.
	Cookies *fs.CookieJar
	// Client is nil when a backend was injected with WithBackend.
	Client *rest.Client
}

// New wires session, token store, backend, service and vault from cfg.
//
//	cfg, _ := platform.LoadConfig(".")
//	app, err := platform.New(cfg, platform.WithLogger(logger))
func New(cfg Config, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	sandbox := o.forceTemp || (IsDevRun() && o.devSafety)
	stateDir := ResolveStatePath(cfg.StateDir, sandbox)
	vaultDir := ResolveStatePath(cfg.VaultDir, sandbox)
	if sandbox {
		o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "state_dir", stateDir, "vault_dir", vaultDir)
	}
	cfg.StateDir, cfg.VaultDir = stateDir, vaultDir

	app := &App{Config: cfg, Logger: o.logger}

	if o.backend == nil {
		jar, err := fs.NewCookieJar(filepath.Join(stateDir, CookieFile), o.logger)
		if err != nil {
			return nil, err
		}
		app.Cookies = jar
	}

	app.Tokens = o.tokenStore
	if app.Tokens == nil {
		store := fs.NewTokenStore(filepath.Join(stateDir, TokenFile))
		store.Jar = app.Cookies
		app.Tokens = store
	}

	sessionOpts := []core.SessionOption{core.WithSessionLogger(o.logger)}
	if o.onExpired != nil {
		sessionOpts = append(sessionOpts, core.WithOnExpired(o.onExpired))
	}
	app.Session = core.NewSession(app.Tokens, sessionOpts...)

	backend := o.backend
	if backend == nil {
		app.Client = rest.New(rest.Config{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			Logger:     o.logger,
			HTTPClient: o.httpClient,
			CookieJar:  app.Cookies,
		}, app.Session)
		backend = app.Client
	}
	app.Service = core.NewService(backend, app.Session, o.logger)

	app.Vault = fs.NewVault(fs.Config{Path: vaultDir, Logger: o.logger})
	return app, nil
}

// Restore hydrates the session from the token store.
func (a *App) Restore(ctx context.Context) error {
	return a.Service.Restore(ctx)
}

// OpenVault prepares the vault directory and its index.
func (a *App) OpenVault(ctx context.Context) (*fs.Vault, error) {
	if err := a.Vault.Initialize(ctx); err != nil {
		return nil, err
	}
	return a.Vault, nil
}

// Components lists the introspectable parts of the application.
func (a *App) Components() []introspection.Component {
	out := []introspection.Component{a.Service, a.Session, a.Vault}
	if a.Client != nil {
		out = append(out, a.Client)
	}
	if c, ok := a.Tokens.(introspection.Component); ok {
		out = append(out, c)
	}
	return out
}
