// Package ipc exposes the entity controllers as named commands, the surface a
// UI shell talks to.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/aretw0/pomodoro/pkg/app"
)

// ErrUnknownCommand is returned for a command name with no handler.
var ErrUnknownCommand = errors.New("unknown command")

// Args is the argument envelope every command receives.
type Args struct {
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Bind decodes the data argument into v.
func (a Args) Bind(v any) error {
	if len(a.Data) == 0 {
		return fmt.Errorf("missing data argument")
	}
	if err := json.Unmarshal(a.Data, v); err != nil {
		return fmt.Errorf("invalid data argument: %w", err)
	}
	return nil
}

// Response is what crosses the command boundary. Errors travel as their
// display text only.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Handler runs one command against a fresh Ctx.
type Handler func(ctx context.Context, mc *app.Ctx, args Args) (any, error)

// Router dispatches commands by name.
type Router struct {
	state    *app.State
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewRouter creates a router with every built-in command registered.
func NewRouter(state *app.State) *Router {
	logger := slog.Default()
	if state != nil && state.Logger != nil {
		logger = state.Logger
	}
	r := &Router{
		state:    state,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
	registerCommands(r)
	return r
}

// Register adds or replaces a command.
func (r *Router) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Commands lists the registered command names in sorted order.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs a command for window with raw JSON arguments.
func (r *Router) Call(ctx context.Context, window, command string, raw []byte) (any, error) {
	h, ok := r.handlers[command]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, command)
	}

	var args Args
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	mc, err := app.FromState(r.state, window)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := h(ctx, mc, args)
	if err != nil {
		r.logger.Debug("command failed", "command", command, "window", window, "error", err)
		return nil, err
	}
	r.logger.Debug("command completed", "command", command, "window", window, "duration", time.Since(start))
	return data, nil
}

// Invoke is Call with the result folded into a Response.
func (r *Router) Invoke(ctx context.Context, window, command string, raw []byte) Response {
	data, err := r.Call(ctx, window, command, raw)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{Data: data}
}
