package model

import (
	"context"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/typed"
)

// Intent is a long-running goal that focus sessions are logged against.
type Intent struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Pinned     bool     `json:"pinned"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"created_at"`
	ArchivedAt *string  `json:"archived_at"`
}

func decodeIntent(obj core.Object) (Intent, error) {
	f := typed.NewFields(obj)
	i := Intent{
		ID:         typed.Field[string](f, "id"),
		Label:      typed.Field[string](f, "label"),
		Pinned:     typed.Field[bool](f, "pinned"),
		Tags:       typed.StringList(f, "tags"),
		CreatedAt:  typed.Field[string](f, "created_at"),
		ArchivedAt: typed.Optional[string](f, "archived_at"),
	}
	return i, f.Err()
}

// IntentForCreate is the payload for a new intent.
type IntentForCreate struct {
	Label string `json:"label" validate:"required"`
}

// CreateDocument fills in pinned, tags and created_at.
func (i IntentForCreate) CreateDocument() core.Object {
	return core.Object{
		"label":      i.Label,
		"pinned":     false,
		"tags":       []any{},
		"created_at": now(),
	}
}

// IntentForUpdate carries the intent fields to change; nil fields are left alone.
type IntentForUpdate struct {
	Label  *string  `json:"label,omitempty"`
	Pinned *bool    `json:"pinned,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// PatchDocument returns only the supplied fields.
func (i IntentForUpdate) PatchDocument() core.Object {
	obj := core.Object{}
	if i.Label != nil {
		obj["label"] = *i.Label
	}
	if i.Pinned != nil {
		obj["pinned"] = *i.Pinned
	}
	if i.Tags != nil {
		obj["tags"] = core.Strings(i.Tags)
	}
	return obj
}

// IntentBmc is the intent controller.
type IntentBmc struct {
	*typed.Controller[Intent, IntentForCreate, IntentForUpdate]
}

// Intents manages the "intent" table.
var Intents = IntentBmc{typed.NewController[Intent, IntentForCreate, IntentForUpdate]("intent", decodeIntent)}

// Archive sets archived_at to the current time.
func (b IntentBmc) Archive(ctx context.Context, mc *app.Ctx, id string) (Intent, error) {
	return b.Transition(ctx, mc, id, archiveMutation(), core.ActionArchived)
}

// Unarchive removes archived_at.
func (b IntentBmc) Unarchive(ctx context.Context, mc *app.Ctx, id string) (Intent, error) {
	return b.Transition(ctx, mc, id, unarchiveMutation(), core.ActionUnarchived)
}
