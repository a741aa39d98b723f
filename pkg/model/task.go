package model

import (
	"context"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/store"
	"github.com/aretw0/pomodoro/pkg/typed"
)

// Task is a to-do item, optionally attached to an intent.
type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Done      bool     `json:"done"`
	Pinned    bool     `json:"pinned"`
	Tags      []string `json:"tags"`
	IntentID  *string  `json:"intent_id"`
	CreatedAt string   `json:"created_at"`
	DoneAt    *string  `json:"done_at"`
}

func decodeTask(obj core.Object) (Task, error) {
	f := typed.NewFields(obj)
	t := Task{
		ID:        typed.Field[string](f, "id"),
		Title:     typed.Field[string](f, "title"),
		Done:      typed.Field[bool](f, "done"),
		Pinned:    typed.Field[bool](f, "pinned"),
		Tags:      typed.StringList(f, "tags"),
		IntentID:  typed.Optional[string](f, "intent_id"),
		CreatedAt: typed.Field[string](f, "created_at"),
		DoneAt:    typed.Optional[string](f, "done_at"),
	}
	return t, f.Err()
}

// TaskForCreate is the payload for a new task.
type TaskForCreate struct {
	Title    string   `json:"title" validate:"required"`
	Tags     []string `json:"tags,omitempty"`
	IntentID *string  `json:"intent_id,omitempty"`
}

// CreateDocument starts the task undone and unpinned.
func (t TaskForCreate) CreateDocument() core.Object {
	obj := core.Object{
		"title":      t.Title,
		"done":       false,
		"pinned":     false,
		"tags":       tags(t.Tags),
		"created_at": now(),
	}
	if t.IntentID != nil {
		obj["intent_id"] = *t.IntentID
	}
	return obj
}

// TaskForUpdate carries the task fields to change. A nil Tags leaves the tags
// alone; an empty one clears them.
type TaskForUpdate struct {
	Title    *string  `json:"title,omitempty"`
	Done     *bool    `json:"done,omitempty"`
	Pinned   *bool    `json:"pinned,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	IntentID *string  `json:"intent_id,omitempty"`
}

// PatchDocument returns only the supplied fields.
func (t TaskForUpdate) PatchDocument() core.Object {
	obj := core.Object{}
	if t.Title != nil {
		obj["title"] = *t.Title
	}
	if t.Done != nil {
		obj["done"] = *t.Done
	}
	if t.Pinned != nil {
		obj["pinned"] = *t.Pinned
	}
	if t.Tags != nil {
		obj["tags"] = core.Strings(t.Tags)
	}
	if t.IntentID != nil {
		obj["intent_id"] = *t.IntentID
	}
	return obj
}

// TaskBmc is the task controller.
type TaskBmc struct {
	*typed.Controller[Task, TaskForCreate, TaskForUpdate]
}

// Tasks manages the "task" table.
var Tasks = TaskBmc{typed.NewController[Task, TaskForCreate, TaskForUpdate]("task", decodeTask)}

const completeTaskSQL = `
UPDATE records SET body = json_set(body, '$.done', json('true'), '$.done_at', $timestamp)
WHERE ns = $ns AND db = $db AND tb = $th_tb AND id = $th_id
RETURNING tb, id, body`

const reopenTaskSQL = `
UPDATE records SET body = json_set(json_remove(body, '$.done_at'), '$.done', json('false'))
WHERE ns = $ns AND db = $db AND tb = $th_tb AND id = $th_id
RETURNING tb, id, body`

// Complete marks the task done and stamps done_at.
func (b TaskBmc) Complete(ctx context.Context, mc *app.Ctx, id string) (Task, error) {
	m := typed.QueryMutation(store.Query{
		SQL:  completeTaskSQL,
		Vars: map[string]any{"timestamp": now()},
	})
	return b.Transition(ctx, mc, id, m, core.ActionCompleted)
}

// Reopen marks the task not done and removes done_at.
func (b TaskBmc) Reopen(ctx context.Context, mc *app.Ctx, id string) (Task, error) {
	m := typed.QueryMutation(store.Query{SQL: reopenTaskSQL})
	return b.Transition(ctx, mc, id, m, core.ActionReopened)
}
