package platform_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pomodoro/internal/platform"
	"github.com/aretw0/pomodoro/pkg/model"
	"github.com/aretw0/pomodoro/pkg/settings"
	"github.com/aretw0/pomodoro/pkg/store"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_WiresEverything(t *testing.T) {
	dir := t.TempDir()
	a, err := platform.New(context.Background(),
		platform.WithConfigDir(dir),
		platform.WithLogger(quiet()),
	)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(a.ConfigDir))
	assert.FileExists(t, filepath.Join(dir, settings.FileName))
	assert.FileExists(t, filepath.Join(dir, platform.DatabaseFileName))

	resp := a.Router.Invoke(context.Background(), "main", "list_theme", nil)
	require.Empty(t, resp.Error)
	assert.Len(t, resp.Data, len(model.DefaultThemes))

	count, err := testutil.GatherAndCount(a.Registry, "pomodoro_store_operations_total")
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestNew_PersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := platform.New(ctx, platform.WithConfigDir(dir), platform.WithLogger(quiet()))
	require.NoError(t, err)

	mc, err := first.Ctx("main")
	require.NoError(t, err)
	task, err := model.Tasks.Create(ctx, mc, model.TaskForCreate{Title: "survive restart"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := platform.New(ctx, platform.WithConfigDir(dir), platform.WithLogger(quiet()))
	require.NoError(t, err)
	defer second.Close()

	mc, err = second.Ctx("main")
	require.NoError(t, err)
	got, err := model.Tasks.Get(ctx, mc, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	themes, err := model.Themes.List(ctx, mc)
	require.NoError(t, err)
	assert.Len(t, themes, len(model.DefaultThemes), "themes are seeded only once")
}

func TestNew_FileConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := "dsn: \":memory:\"\nnamespace: test\ndatabase: unit\nevent_buffer: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, platform.ConfigFileName), []byte(cfg), 0644))

	a, err := platform.New(context.Background(),
		platform.WithConfigDir(dir),
		platform.WithLogger(quiet()),
		platform.WithSeedThemes(false),
	)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, store.Session{Namespace: "test", Database: "unit"}, a.Store.Session())
	assert.NoFileExists(t, filepath.Join(dir, platform.DatabaseFileName))

	state := a.Store.State().(store.StoreState)
	assert.Equal(t, store.MemoryDSN, state.DSN)

	resp := a.Router.Invoke(context.Background(), "main", "list_theme", nil)
	require.Empty(t, resp.Error)
	assert.Empty(t, resp.Data)
}

func TestNew_OptionsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, platform.ConfigFileName), []byte("namespace: file\n"), 0644))

	a, err := platform.New(context.Background(),
		platform.WithConfigDir(dir),
		platform.WithDSN(store.MemoryDSN),
		platform.WithSession(store.Session{Namespace: "code"}),
		platform.WithLogger(quiet()),
	)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "code", a.Store.Session().Namespace)
	assert.Equal(t, store.DefaultSession.Database, a.Store.Session().Database)
}

func TestNew_InvalidFileConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, platform.ConfigFileName), []byte("dsn: [unclosed"), 0644))

	_, err := platform.New(context.Background(), platform.WithConfigDir(dir), platform.WithLogger(quiet()))
	assert.Error(t, err)
}
