// Package app holds the per-request context handed to every controller.
package app

import (
	"log/slog"

	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/settings"
	"github.com/aretw0/pomodoro/pkg/store"
)

// State is the shared application state. It is built once at startup and
// outlives every request.
type State struct {
	Store    *store.Store
	Emitter  core.Emitter
	Settings *settings.Service
	Logger   *slog.Logger
}

// Ctx is the per-request view of State, bound to the window that issued the
// request.
type Ctx struct {
	store    *store.Store
	emitter  core.Emitter
	settings *settings.Service
	logger   *slog.Logger
	window   string
}

// FromState builds a Ctx. It fails with core.ErrContextUnavailable when the
// state has no store or no way to emit events.
func FromState(state *State, window string) (*Ctx, error) {
	if state == nil || state.Store == nil || state.Emitter == nil {
		return nil, core.ErrContextUnavailable
	}

	logger := state.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if window != "" {
		logger = logger.With("window", window)
	}

	return &Ctx{
		store:    state.Store,
		emitter:  state.Emitter,
		settings: state.Settings,
		logger:   logger,
		window:   window,
	}, nil
}

// Store returns the shared store.
func (c *Ctx) Store() *store.Store {
	return c.store
}

// Settings returns the settings service, or core.ErrStateNotAccessed when the
// application was started without one.
func (c *Ctx) Settings() (*settings.Service, error) {
	if c.settings == nil {
		return nil, core.ErrStateNotAccessed
	}
	return c.settings, nil
}

// Window returns the label of the window that issued the request.
func (c *Ctx) Window() string {
	return c.window
}

// Logger returns the request logger, tagged with the window name.
func (c *Ctx) Logger() *slog.Logger {
	return c.logger
}

// Emit broadcasts an event. Delivery is best effort: a failure is logged and
// never reaches the caller.
func (c *Ctx) Emit(name string, payload any) {
	if err := c.emitter.Emit(name, payload); err != nil {
		c.logger.Warn("event emission failed", "event", name, "error", err)
	}
}
