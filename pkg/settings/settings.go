// Package settings manages the process-wide settings file kept in the
// application config directory.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/pomodoro/pkg/core"
)

// FileName is the settings file inside the config directory.
const FileName = "settings.yaml"

// EventUpdated is emitted whenever the settings change.
const EventUpdated = "settings_updated"

// Settings is the user-facing configuration of the timer.
type Settings struct {
	TimeFocus         int     `yaml:"time_focus" json:"time_focus"`
	TimeShortBreak    int     `yaml:"time_short_break" json:"time_short_break"`
	TimeLongBreak     int     `yaml:"time_long_break" json:"time_long_break"`
	LongBreakInterval int     `yaml:"long_break_interval" json:"long_break_interval"`
	AutoStartBreaks   bool    `yaml:"auto_start_breaks" json:"auto_start_breaks"`
	AutoStartFocus    bool    `yaml:"auto_start_focus" json:"auto_start_focus"`
	CurrentThemeID    *string `yaml:"current_theme_id,omitempty" json:"current_theme_id"`
	CurrentProjectID  *string `yaml:"current_project_id,omitempty" json:"current_project_id"`
}

// Defaults returns the settings written on first start.
func Defaults() Settings {
	return Settings{
		TimeFocus:         25,
		TimeShortBreak:    5,
		TimeLongBreak:     15,
		LongBreakInterval: 4,
	}
}

// SettingsForUpdate carries the fields to change. Nil fields are left alone;
// an empty id clears the current theme or project.
type SettingsForUpdate struct {
	TimeFocus         *int    `json:"time_focus,omitempty"`
	TimeShortBreak    *int    `json:"time_short_break,omitempty"`
	TimeLongBreak     *int    `json:"time_long_break,omitempty"`
	LongBreakInterval *int    `json:"long_break_interval,omitempty"`
	AutoStartBreaks   *bool   `json:"auto_start_breaks,omitempty"`
	AutoStartFocus    *bool   `json:"auto_start_focus,omitempty"`
	CurrentThemeID    *string `json:"current_theme_id,omitempty"`
	CurrentProjectID  *string `json:"current_project_id,omitempty"`
}

func (u SettingsForUpdate) apply(s Settings) Settings {
	if u.TimeFocus != nil {
		s.TimeFocus = *u.TimeFocus
	}
	if u.TimeShortBreak != nil {
		s.TimeShortBreak = *u.TimeShortBreak
	}
	if u.TimeLongBreak != nil {
		s.TimeLongBreak = *u.TimeLongBreak
	}
	if u.LongBreakInterval != nil {
		s.LongBreakInterval = *u.LongBreakInterval
	}
	if u.AutoStartBreaks != nil {
		s.AutoStartBreaks = *u.AutoStartBreaks
	}
	if u.AutoStartFocus != nil {
		s.AutoStartFocus = *u.AutoStartFocus
	}
	if u.CurrentThemeID != nil {
		s.CurrentThemeID = optionalID(*u.CurrentThemeID)
	}
	if u.CurrentProjectID != nil {
		s.CurrentProjectID = optionalID(*u.CurrentProjectID)
	}
	return s
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Service owns the settings file. Reads before Initialize fail with
// core.ErrStateNotAccessed.
type Service struct {
	mu      sync.RWMutex
	path    string
	current *Settings

	emitter  core.Emitter
	logger   *slog.Logger
	watching bool
}

// Option configures a Service.
type Option func(*Service)

// WithEmitter sets where settings_updated events are sent.
func WithEmitter(e core.Emitter) Option {
	return func(s *Service) {
		s.emitter = e
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a service for the settings file inside dir. Nothing is read
// until Initialize.
func New(dir string, opts ...Option) *Service {
	s := &Service{
		path:   filepath.Join(dir, FileName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the settings file location.
func (s *Service) Path() string {
	return s.path
}

// Initialize loads the settings file, writing the defaults when it does not exist.
func (s *Service) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	loaded, err := s.read()
	if errors.Is(err, os.ErrNotExist) {
		defaults := Defaults()
		if err := s.write(defaults); err != nil {
			return err
		}
		loaded = defaults
		s.logger.Debug("settings file created", "path", s.path)
	} else if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = &loaded
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the current settings.
func (s *Service) Get() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Settings{}, core.ErrStateNotAccessed
	}
	return *s.current, nil
}

// Update applies u, persists the result and emits settings_updated.
func (s *Service) Update(u SettingsForUpdate) (Settings, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return Settings{}, core.ErrStateNotAccessed
	}
	next := u.apply(*s.current)
	if err := s.write(next); err != nil {
		s.mu.Unlock()
		return Settings{}, err
	}
	s.current = &next
	s.mu.Unlock()

	s.emit(next)
	return next, nil
}

// Reload re-reads the file and reports whether the settings changed.
// The file is read under the same lock Update writes under, so a reload never
// installs a state older than the last Update.
func (s *Service) Reload() (Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.read()
	if err != nil {
		return Settings{}, false, err
	}

	changed := s.current == nil || !reflect.DeepEqual(*s.current, loaded)
	s.current = &loaded
	return loaded, changed, nil
}

func (s *Service) emit(current Settings) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(EventUpdated, current); err != nil {
		s.logger.Warn("event emission failed", "event", EventUpdated, "error", err)
	}
}

func (s *Service) read() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Settings{}, err
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return loaded, nil
}

func (s *Service) write(v Settings) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Path        string `json:"path"`
	Initialized bool   `json:"initialized"`
	Watching    bool   `json:"watching"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ServiceState{
		Path:        s.path,
		Initialized: s.current != nil,
		Watching:    s.watching,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "settings"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
