package core

import "fmt"

// Action is the suffix of an event name describing what happened to an entity.
type Action string

const (
	ActionCreated    Action = "created"
	ActionUpdated    Action = "updated"
	ActionDeleted    Action = "deleted"
	ActionArchived   Action = "archived"
	ActionUnarchived Action = "unarchived"
	ActionCompleted  Action = "completed"
	ActionReopened   Action = "reopened"
)

// EventName builds the "<entity>_<action>" name used on the event channel.
func EventName(entity string, action Action) string {
	return entity + "_" + string(action)
}

// Event is a named notification with a JSON-serializable payload.
type Event struct {
	Name      string `json:"event"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%d", e.Name, e.Timestamp)
}

// Emitter delivers named events to the presentation layer.
// Implementations must not block on slow listeners.
type Emitter interface {
	Emit(name string, payload any) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(name string, payload any) error

// Emit calls f(name, payload).
func (f EmitterFunc) Emit(name string, payload any) error {
	return f(name, payload)
}
