package platform

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pomodoro/pkg/store"
)

// options holds the internal configuration for the application.
type options struct {
	logger    *slog.Logger
	registry  *prometheus.Registry
	configDir string
	dsn       string
	session   store.Session
	buffer    int
	forceTemp bool
	devSafety bool
	seed      bool
}

// Option defines a functional option for configuring the application.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
		seed:      true,
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the Prometheus registry store metrics are registered in.
// A private registry is created when none is given.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithConfigDir sets the directory holding settings.yaml, config.yaml and the
// database. Defaults to a local .pomodoro directory when one is found above
// the working directory, otherwise to the user config directory.
func WithConfigDir(dir string) Option {
	return func(o *options) {
		o.configDir = dir
	}
}

// WithDSN overrides the database location. Use store.MemoryDSN for a
// throwaway database.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithSession sets the namespace and database every query runs against.
func WithSession(ses store.Session) Option {
	return func(o *options) {
		o.session = ses
	}
}

// WithEventBuffer sets the per-subscriber event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.buffer = size
	}
}

// WithForceTemp forces the config directory into the temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) the config directory is moved under the
// temporary directory so development runs never touch real user data.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithSeedThemes controls whether the built-in themes are seeded on startup.
// Defaults to true.
func WithSeedThemes(seed bool) Option {
	return func(o *options) {
		o.seed = seed
	}
}
