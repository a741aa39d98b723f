package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/introspection"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/events"
)

// WindowHeader names the window issuing an HTTP command.
const WindowHeader = "X-Pomodoro-Window"

var upgrader = websocket.Upgrader{
	// The bridge only listens on loopback for the local UI shell.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Inspectable is a component whose state can be reported on /state.
type Inspectable interface {
	introspection.Introspectable
	introspection.Component
}

// Server bridges the command router and the event bus over HTTP.
type Server struct {
	router     *Router
	bus        *events.Bus
	gatherer   prometheus.Gatherer
	components []Inspectable
	logger     *slog.Logger
	engine     *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithComponents adds components reported on /state.
func WithComponents(components ...Inspectable) Option {
	return func(s *Server) {
		s.components = append(s.components, components...)
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds the HTTP routes.
func NewServer(router *Router, bus *events.Bus, opts ...Option) *Server {
	s := &Server{
		router:   router,
		bus:      bus,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/commands", s.handleCommands)
	engine.POST("/invoke/:command", s.handleInvoke)
	engine.GET("/events", s.handleEvents)
	engine.GET("/state", s.handleState)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	s.engine = engine

	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ipc server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleCommands(c *gin.Context) {
	c.JSON(http.StatusOK, s.router.Commands())
}

func (s *Server) handleInvoke(c *gin.Context) {
	command := c.Param("command")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	data, err := s.router.Call(c.Request.Context(), c.GetHeader(WindowHeader), command, body)
	if err != nil {
		c.JSON(statusFor(err), Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Data: data})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrContextUnavailable), errors.Is(err, core.ErrStateNotAccessed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleState(c *gin.Context) {
	state := make(map[string]any, len(s.components))
	for _, comp := range s.components {
		state[comp.ComponentType()] = comp.State()
	}
	c.JSON(http.StatusOK, state)
}

// handleEvents streams bus events matching the "pattern" query parameter
// (default "*") to a websocket client.
func (s *Server) handleEvents(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "*")
	src, err := s.bus.Source(pattern)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		// Start with a finished context so the subscription is released.
		done, cancel := context.WithCancel(context.Background())
		cancel()
		_ = src.Start(done)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The client never sends anything; reading only detects the disconnect.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := src.Start(ctx); err != nil {
		s.logger.Warn("event source failed", "error", err)
		return
	}
	s.logger.Debug("event stream opened", "pattern", pattern)

	for e := range src.Events() {
		if err := ws.WriteJSON(e); err != nil {
			s.logger.Debug("event stream closed", "error", err)
			return
		}
	}
}
