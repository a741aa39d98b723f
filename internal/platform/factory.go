package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/events"
	"github.com/aretw0/pomodoro/pkg/ipc"
	"github.com/aretw0/pomodoro/pkg/model"
	"github.com/aretw0/pomodoro/pkg/settings"
	"github.com/aretw0/pomodoro/pkg/store"
)

// App is the fully wired backend: one store, one event bus and one settings
// service shared by every request.
type App struct {
	ConfigDir string
	Store     *store.Store
	Bus       *events.Bus
	Settings  *settings.Service
	Registry  *prometheus.Registry
	Router    *ipc.Router

	state  *app.State
	logger *slog.Logger
}

// New prepares the config directory, opens the store, loads the settings and
// seeds the default themes.
//
//	a, err := platform.New(ctx, platform.WithConfigDir(dir))
func New(ctx context.Context, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	dir := o.configDir
	if dir == "" {
		var err error
		if dir, err = DefaultConfigDir(); err != nil {
			return nil, err
		}
	}
	if o.forceTemp || (o.devSafety && IsDevRun()) {
		safe := ResolveConfigDir(dir, true)
		if safe != dir {
			logger.Warn("dev run detected, using sandboxed config directory", "requested", dir, "path", safe)
		}
		dir = safe
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	fileCfg, err := LoadFileConfig(dir)
	if err != nil {
		return nil, err
	}
	fileCfg.apply(o)
	if o.dsn == "" {
		o.dsn = filepath.Join(dir, DatabaseFileName)
	}
	if o.session.Namespace == "" {
		o.session.Namespace = store.DefaultSession.Namespace
	}
	if o.session.Database == "" {
		o.session.Database = store.DefaultSession.Database
	}

	registry := o.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s, err := store.Open(ctx, store.Config{
		DSN:        o.dsn,
		Session:    o.session,
		Logger:     logger,
		Registerer: registry,
	})
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(events.WithBuffer(o.buffer), events.WithLogger(logger))

	svc := settings.New(dir, settings.WithEmitter(bus), settings.WithLogger(logger))
	if err := svc.Initialize(); err != nil {
		_ = bus.Close()
		_ = s.Close()
		return nil, err
	}

	if o.seed {
		if err := model.Themes.Initialize(ctx, s); err != nil {
			_ = bus.Close()
			_ = s.Close()
			return nil, err
		}
	}

	state := &app.State{Store: s, Emitter: bus, Settings: svc, Logger: logger}

	logger.Debug("application ready", "config_dir", dir, "dsn", o.dsn)

	return &App{
		ConfigDir: dir,
		Store:     s,
		Bus:       bus,
		Settings:  svc,
		Registry:  registry,
		Router:    ipc.NewRouter(state),
		state:     state,
		logger:    logger,
	}, nil
}

// State returns the shared state requests build their Ctx from.
func (a *App) State() *app.State {
	return a.state
}

// Ctx builds a request context for window.
func (a *App) Ctx(window string) (*app.Ctx, error) {
	return app.FromState(a.state, window)
}

// Server builds the HTTP bridge over the app's router, bus and registry.
func (a *App) Server(opts ...ipc.Option) *ipc.Server {
	base := []ipc.Option{
		ipc.WithGatherer(a.Registry),
		ipc.WithComponents(a.Store, a.Bus, a.Settings),
		ipc.WithLogger(a.logger),
	}
	return ipc.NewServer(a.Router, a.Bus, append(base, opts...)...)
}

// Close stops event delivery and releases the store.
func (a *App) Close() error {
	return errors.Join(a.Bus.Close(), a.Store.Close())
}
