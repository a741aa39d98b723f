// Package events implements the event channel between the controllers and the
// presentation layer.
//
// Delivery never blocks the emitter: every subscriber owns a buffered channel
// and an event that does not fit is dropped for that subscriber. Subscriptions
// filter event names with doublestar patterns such as "task_*" or "*_deleted".
package events

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/pomodoro/pkg/core"
)

// DefaultBuffer is the per-subscriber buffer used when none is configured.
const DefaultBuffer = 100

// ErrBusClosed is returned by Emit and Subscribe after Close.
var ErrBusClosed = errors.New("event bus closed")

type subscription struct {
	pattern string
	ch      chan core.Event
}

// Bus fans events out to pattern subscriptions. It implements core.Emitter.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool

	buffer int
	logger *slog.Logger

	emitted atomic.Int64
	dropped atomic.Int64
}

// Option configures a Bus.
type Option func(*Bus)

// WithBuffer sets the per-subscriber channel size. Zero keeps DefaultBuffer.
func WithBuffer(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.buffer = size
		}
	}
}

// WithLogger sets the logger used to report dropped events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[uint64]*subscription),
		buffer: DefaultBuffer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Emit publishes a named event to every matching subscriber.
func (b *Bus) Emit(name string, payload any) error {
	event := core.Event{
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	b.emitted.Add(1)

	for id, sub := range b.subs {
		if ok, _ := doublestar.Match(sub.pattern, name); !ok {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
			b.logger.Warn("event dropped, subscriber buffer full", "event", name, "subscriber", id)
		}
	}
	return nil
}

// Subscribe returns a channel receiving events whose names match pattern, and
// a function that cancels the subscription and closes the channel.
func (b *Bus) Subscribe(pattern string) (<-chan core.Event, func(), error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, nil, fmt.Errorf("invalid event pattern %q", pattern)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrBusClosed
	}

	id := b.nextID
	b.nextID++
	sub := &subscription{pattern: pattern, ch: make(chan core.Event, b.buffer)}
	b.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() { b.unsubscribe(id) })
	}
	return sub.ch, cancel, nil
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Close closes every subscription. Further emissions fail with ErrBusClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
	return nil
}

// BusState exposes internal state for observability.
type BusState struct {
	Subscribers int   `json:"subscribers"`
	Buffer      int   `json:"buffer"`
	Emitted     int64 `json:"emitted"`
	Dropped     int64 `json:"dropped"`
	Closed      bool  `json:"closed"`
}

// State implements introspection.Introspectable.
func (b *Bus) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BusState{
		Subscribers: len(b.subs),
		Buffer:      b.buffer,
		Emitted:     b.emitted.Load(),
		Dropped:     b.dropped.Load(),
		Closed:      b.closed,
	}
}

// ComponentType implements introspection.Component.
func (b *Bus) ComponentType() string {
	return "event_bus"
}

var _ core.Emitter = (*Bus)(nil)
var _ introspection.Introspectable = (*Bus)(nil)
var _ introspection.Component = (*Bus)(nil)
