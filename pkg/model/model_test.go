package model_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/model"
	"github.com/aretw0/pomodoro/pkg/settings"
	"github.com/aretw0/pomodoro/pkg/store"
)

type recorder struct {
	mu     sync.Mutex
	events []core.Event
	fail   bool
}

func (r *recorder) Emit(name string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, core.Event{Name: name, Payload: payload})
	if r.fail {
		return errors.New("no window")
	}
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

type env struct {
	ctx   context.Context
	mc    *app.Ctx
	store *store.Store
	svc   *settings.Service
	rec   *recorder
}

func setup(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.Open(context.Background(), store.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	rec := &recorder{}
	svc := settings.New(t.TempDir(), settings.WithLogger(logger))
	require.NoError(t, svc.Initialize())

	mc, err := app.FromState(&app.State{Store: s, Emitter: rec, Settings: svc, Logger: logger}, "main")
	require.NoError(t, err)

	return &env{ctx: context.Background(), mc: mc, store: s, svc: svc, rec: rec}
}

func TestTask_Scenario(t *testing.T) {
	e := setup(t)

	created, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{Title: "Write docs"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "task:"))
	assert.NotEmpty(t, created.CreatedAt)
	assert.False(t, created.Done)
	assert.False(t, created.Pinned)
	assert.Empty(t, created.Tags)
	assert.Nil(t, created.DoneAt)

	got, err := model.Tasks.Get(e.ctx, e.mc, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("get after create mismatch (-want +got):\n%s", diff)
	}

	list, err := model.Tasks.List(e.ctx, e.mc)
	require.NoError(t, err)
	if diff := cmp.Diff([]model.Task{created}, list); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}

	done := true
	updated, err := model.Tasks.Update(e.ctx, e.mc, created.ID, model.TaskForUpdate{Done: &done})
	require.NoError(t, err)
	want := created
	want.Done = true
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}

	deleted, err := model.Tasks.Delete(e.ctx, e.mc, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = model.Tasks.Get(e.ctx, e.mc, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = model.Tasks.Delete(e.ctx, e.mc, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, []string{"task_created", "task_updated", "task_deleted"}, e.rec.names())
}

func TestTask_EventPayloads(t *testing.T) {
	e := setup(t)

	created, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{Title: "a", Tags: []string{"x"}})
	require.NoError(t, err)
	_, err = model.Tasks.Delete(e.ctx, e.mc, created.ID)
	require.NoError(t, err)

	require.Len(t, e.rec.events, 2)

	doc, ok := e.rec.events[0].Payload.(core.Object)
	require.True(t, ok, "created event carries the raw document")
	assert.Equal(t, "a", doc["title"])
	assert.Equal(t, []any{"x"}, doc["tags"])
	assert.Equal(t, created.ID, doc["id"].(core.RecordRef).String())

	assert.Equal(t, model.DeleteResult{ID: created.ID}, e.rec.events[1].Payload)
}

func TestTask_CompleteAndReopen(t *testing.T) {
	e := setup(t)

	task, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{Title: "focus"})
	require.NoError(t, err)

	completed, err := model.Tasks.Complete(e.ctx, e.mc, task.ID)
	require.NoError(t, err)
	assert.True(t, completed.Done)
	require.NotNil(t, completed.DoneAt)

	reopened, err := model.Tasks.Reopen(e.ctx, e.mc, task.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Done)
	assert.Nil(t, reopened.DoneAt)

	raw, err := e.store.Get(e.ctx, task.ID)
	require.NoError(t, err)
	assert.NotContains(t, raw, "done_at")

	assert.Equal(t, []string{"task_created", "task_completed", "task_reopened"}, e.rec.names())
}

func TestUpdate_OnlyTouchesPresentFields(t *testing.T) {
	e := setup(t)

	intent, err := model.Intents.Create(e.ctx, e.mc, model.IntentForCreate{Label: "Learn Go"})
	require.NoError(t, err)

	pinned := true
	updated, err := model.Intents.Update(e.ctx, e.mc, intent.ID, model.IntentForUpdate{Pinned: &pinned})
	require.NoError(t, err)

	want := intent
	want.Pinned = true
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}

	cleared, err := model.Intents.Update(e.ctx, e.mc, intent.ID, model.IntentForUpdate{Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, []string{}, cleared.Tags)
	assert.Equal(t, "Learn Go", cleared.Label)
}

func TestUpdate_MissingRecord(t *testing.T) {
	e := setup(t)

	label := "x"
	_, err := model.Intents.Update(e.ctx, e.mc, "intent:missing", model.IntentForUpdate{Label: &label})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, e.rec.names())
}

func TestUpdate_EmptyStringClearsField(t *testing.T) {
	e := setup(t)

	task, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{Title: "Draft"})
	require.NoError(t, err)

	empty := ""
	updated, err := model.Tasks.Update(e.ctx, e.mc, task.ID, model.TaskForUpdate{Title: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Title)

	intent, err := model.Intents.Create(e.ctx, e.mc, model.IntentForCreate{Label: "Focus"})
	require.NoError(t, err)
	cleared, err := model.Intents.Update(e.ctx, e.mc, intent.ID, model.IntentForUpdate{Label: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Label)
}

func TestController_RejectsForeignIDs(t *testing.T) {
	e := setup(t)

	intent, err := model.Intents.Create(e.ctx, e.mc, model.IntentForCreate{Label: "Keep me"})
	require.NoError(t, err)
	before := e.rec.names()

	_, err = model.Tasks.Delete(e.ctx, e.mc, intent.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	title := "hijacked"
	_, err = model.Tasks.Update(e.ctx, e.mc, intent.ID, model.TaskForUpdate{Title: &title})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = model.Tasks.Complete(e.ctx, e.mc, intent.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = model.Tasks.Get(e.ctx, e.mc, intent.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, before, e.rec.names(), "no event for a rejected id")

	got, err := model.Intents.Get(e.ctx, e.mc, intent.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(intent, got); diff != "" {
		t.Errorf("intent changed (-want +got):\n%s", diff)
	}
}

func TestCreate_ValidationFailureEmitsNothing(t *testing.T) {
	e := setup(t)

	_, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{})
	assert.Error(t, err)

	_, err = model.Themes.Create(e.ctx, e.mc, model.ThemeForCreate{
		Name: "bad", WindowHex: "red", BaseHex: "#000", PrimaryHex: "#000", TextHex: "#FFF",
	})
	assert.Error(t, err)

	assert.Empty(t, e.rec.names())
}

func TestCreate_EmissionFailureIsIgnored(t *testing.T) {
	e := setup(t)
	e.rec.fail = true

	task, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{Title: "still saved"})
	require.NoError(t, err)

	_, err = model.Tasks.Get(e.ctx, e.mc, task.ID)
	assert.NoError(t, err)
}

func TestList_FailsAtomically(t *testing.T) {
	e := setup(t)

	_, err := model.Tasks.Create(e.ctx, e.mc, model.TaskForCreate{Title: "good"})
	require.NoError(t, err)

	// A record written outside the controller, missing most task fields.
	_, err = e.store.Create(e.ctx, "task", brokenTask{})
	require.NoError(t, err)

	list, err := model.Tasks.List(e.ctx, e.mc)
	assert.Nil(t, list)
	require.Error(t, err)
	assert.True(t, core.IsPropertyNotFound(err))
	assert.Contains(t, err.Error(), "task:")
}

type brokenTask struct{}

func (brokenTask) CreateDocument() core.Object {
	return core.Object{"title": "broken"}
}

func TestIntent_ArchiveAndUnarchive(t *testing.T) {
	e := setup(t)

	intent, err := model.Intents.Create(e.ctx, e.mc, model.IntentForCreate{Label: "Read"})
	require.NoError(t, err)
	assert.Nil(t, intent.ArchivedAt)

	archived, err := model.Intents.Archive(e.ctx, e.mc, intent.ID)
	require.NoError(t, err)
	require.NotNil(t, archived.ArchivedAt)
	assert.Equal(t, intent.Label, archived.Label)

	unarchived, err := model.Intents.Unarchive(e.ctx, e.mc, intent.ID)
	require.NoError(t, err)
	assert.Nil(t, unarchived.ArchivedAt)

	raw, err := e.store.Get(e.ctx, intent.ID)
	require.NoError(t, err)
	assert.NotContains(t, raw, "archived_at", "unarchive removes the field entirely")

	assert.Equal(t, []string{"intent_created", "intent_archived", "intent_unarchived"}, e.rec.names())
}

func TestArchive_MissingRecord(t *testing.T) {
	e := setup(t)

	_, err := model.Projects.Archive(e.ctx, e.mc, "project:missing")
	var failed *core.StoreFailToCreateError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "can't update project:missing, nothing returned.", failed.Cause)
	assert.Empty(t, e.rec.names())

	_, err = model.Projects.Archive(e.ctx, e.mc, "nocolon")
	assert.True(t, core.IsValueNotOfType(err))
}

func TestProject_Current(t *testing.T) {
	e := setup(t)

	_, err := model.Projects.Current(e.ctx, e.mc)
	assert.ErrorIs(t, err, core.ErrNoCurrentProject)

	project, err := model.Projects.Create(e.ctx, e.mc, model.ProjectForCreate{Name: "Thesis"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProjectColor, project.Color)

	_, err = e.svc.Update(settings.SettingsForUpdate{CurrentProjectID: &project.ID})
	require.NoError(t, err)

	current, err := model.Projects.Current(e.ctx, e.mc)
	require.NoError(t, err)
	assert.Equal(t, project, current)

	archived, err := model.Projects.Archive(e.ctx, e.mc, project.ID)
	require.NoError(t, err)
	assert.NotNil(t, archived.ArchivedAt)
}

func TestTheme_InitializeAndCurrent(t *testing.T) {
	e := setup(t)

	require.NoError(t, model.Themes.Initialize(e.ctx, e.store))
	require.NoError(t, model.Themes.Initialize(e.ctx, e.store), "seeding twice is a no-op")

	themes, err := model.Themes.List(e.ctx, e.mc)
	require.NoError(t, err)
	require.Len(t, themes, len(model.DefaultThemes))
	assert.Empty(t, e.rec.names(), "seeding emits no events")

	current, err := model.Themes.Current(e.ctx, e.mc)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultThemes[0].Name, current.Name)

	chosen := themes[2].ID
	_, err = e.svc.Update(settings.SettingsForUpdate{CurrentThemeID: &chosen})
	require.NoError(t, err)

	current, err = model.Themes.Current(e.ctx, e.mc)
	require.NoError(t, err)
	assert.Equal(t, themes[2], current)

	fav := true
	updated, err := model.Themes.Update(e.ctx, e.mc, chosen, model.ThemeForUpdate{Favorite: &fav})
	require.NoError(t, err)
	assert.True(t, updated.Favorite)
	assert.Equal(t, themes[2].PrimaryHex, updated.PrimaryHex)
}
