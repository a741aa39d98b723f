package ipc_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/events"
	"github.com/aretw0/pomodoro/pkg/ipc"
	"github.com/aretw0/pomodoro/pkg/model"
	"github.com/aretw0/pomodoro/pkg/settings"
	"github.com/aretw0/pomodoro/pkg/store"
)

func newState(t *testing.T) (*app.State, *events.Bus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.Open(context.Background(), store.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	bus := events.NewBus(events.WithLogger(logger))
	t.Cleanup(func() { _ = bus.Close() })

	svc := settings.New(t.TempDir(), settings.WithEmitter(bus), settings.WithLogger(logger))
	require.NoError(t, svc.Initialize())

	return &app.State{Store: s, Emitter: bus, Settings: svc, Logger: logger}, bus
}

func TestRouter_Commands(t *testing.T) {
	state, _ := newState(t)
	r := ipc.NewRouter(state)

	names := r.Commands()
	for _, entity := range []string{"task", "theme", "intent", "project"} {
		for _, action := range []string{"get_", "list_", "create_", "update_", "delete_"} {
			assert.Contains(t, names, action+entity)
		}
	}
	for _, name := range []string{
		"archive_intent", "unarchive_intent", "archive_project", "unarchive_project",
		"complete_task", "reopen_task",
		"get_settings", "update_settings", "get_current_theme", "get_current_project",
	} {
		assert.Contains(t, names, name)
	}
}

func TestRouter_TaskRoundTrip(t *testing.T) {
	state, _ := newState(t)
	r := ipc.NewRouter(state)
	ctx := context.Background()

	resp := r.Invoke(ctx, "main", "create_task", []byte(`{"data":{"title":"Write docs"}}`))
	require.Empty(t, resp.Error)
	task, ok := resp.Data.(model.Task)
	require.True(t, ok)
	assert.Equal(t, "Write docs", task.Title)

	resp = r.Invoke(ctx, "main", "update_task", []byte(`{"id":"`+task.ID+`","data":{"pinned":true}}`))
	require.Empty(t, resp.Error)
	assert.True(t, resp.Data.(model.Task).Pinned)

	resp = r.Invoke(ctx, "main", "list_task", nil)
	require.Empty(t, resp.Error)
	assert.Len(t, resp.Data.([]model.Task), 1)

	resp = r.Invoke(ctx, "main", "delete_task", []byte(`{"id":"`+task.ID+`"}`))
	require.Empty(t, resp.Error)
	assert.Equal(t, model.DeleteResult{ID: task.ID}, resp.Data)
}

func TestRouter_ErrorsAreDisplayText(t *testing.T) {
	state, _ := newState(t)
	r := ipc.NewRouter(state)
	ctx := context.Background()

	resp := r.Invoke(ctx, "main", "get_current_project", nil)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "no current project", resp.Error)

	resp = r.Invoke(ctx, "main", "get_task", []byte(`{"id":"nocolon"}`))
	assert.Contains(t, resp.Error, "value not of type 'record id'")

	resp = r.Invoke(ctx, "main", "launch_rocket", nil)
	assert.Equal(t, "unknown command 'launch_rocket'", resp.Error)

	resp = r.Invoke(ctx, "main", "create_task", []byte(`{}`))
	assert.Equal(t, "missing data argument", resp.Error)
}

func TestRouter_ContextUnavailable(t *testing.T) {
	r := ipc.NewRouter(&app.State{})

	resp := r.Invoke(context.Background(), "main", "list_task", nil)
	assert.Equal(t, "context unavailable", resp.Error)
}

func TestRouter_Settings(t *testing.T) {
	state, bus := newState(t)
	r := ipc.NewRouter(state)
	ctx := context.Background()

	updates, cancel, err := bus.Subscribe("settings_*")
	require.NoError(t, err)
	defer cancel()

	resp := r.Invoke(ctx, "main", "update_settings", []byte(`{"data":{"time_focus":50}}`))
	require.Empty(t, resp.Error)
	assert.Equal(t, 50, resp.Data.(settings.Settings).TimeFocus)

	resp = r.Invoke(ctx, "main", "get_settings", nil)
	require.Empty(t, resp.Error)
	assert.Equal(t, 50, resp.Data.(settings.Settings).TimeFocus)

	e := <-updates
	assert.Equal(t, settings.EventUpdated, e.Name)
}
