package pomodoro

import (
	"context"
	_ "embed"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pomodoro/internal/platform"
	"github.com/aretw0/pomodoro/pkg/store"
)

//go:embed VERSION
var version string

// Version is the release of the backend.
var Version = strings.TrimSpace(version)

// --- Types ---

// App is the wired backend returned by New.
type App = platform.App

// Option defines a functional option for configuring the backend.
type Option = platform.Option

// --- Configuration ---

// WithConfigDir sets the directory holding settings, config and database.
func WithConfigDir(dir string) Option {
	return platform.WithConfigDir(dir)
}

// WithDSN overrides the database location.
func WithDSN(dsn string) Option {
	return platform.WithDSN(dsn)
}

// WithSession sets the namespace and database every query runs against.
func WithSession(namespace, database string) Option {
	return platform.WithSession(store.Session{Namespace: namespace, Database: database})
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRegistry sets the Prometheus registry for store metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return platform.WithRegistry(reg)
}

// WithEventBuffer sets the per-subscriber event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithForceTemp forces the config directory into the temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithSeedThemes controls whether the built-in themes are seeded.
func WithSeedThemes(seed bool) Option {
	return platform.WithSeedThemes(seed)
}

// --- Factory ---

// New opens the backend.
func New(ctx context.Context, opts ...Option) (*App, error) {
	return platform.New(ctx, opts...)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// ResolveConfigDir applies the dev-run safety rules to a config directory.
func ResolveConfigDir(userPath string, forceTemp bool) string {
	return platform.ResolveConfigDir(userPath, forceTemp)
}

// DefaultConfigDir returns the config directory used when none is given.
func DefaultConfigDir() (string, error) {
	return platform.DefaultConfigDir()
}
