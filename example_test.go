package pomodoro_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/pomodoro"
	"github.com/aretw0/pomodoro/pkg/model"
)

// Example_basic opens a backend in a temporary directory, creates a task and
// reads it back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "pomodoro-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	a, err := pomodoro.New(ctx,
		pomodoro.WithConfigDir(tmpDir),
		pomodoro.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	mc, err := a.Ctx("main")
	if err != nil {
		log.Fatal(err)
	}

	task, err := model.Tasks.Create(ctx, mc, model.TaskForCreate{Title: "Write the report"})
	if err != nil {
		log.Fatal(err)
	}

	got, err := model.Tasks.Get(ctx, mc, task.ID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s (done: %v)\n", got.Title, got.Done)
	// Output:
	// Write the report (done: false)
}

// Example_events subscribes to task events before mutating.
func Example_events() {
	ctx := context.Background()
	a, err := pomodoro.New(ctx,
		pomodoro.WithForceTemp(true),
		pomodoro.WithConfigDir("example-events"),
		pomodoro.WithDSN(":memory:"),
		pomodoro.WithSeedThemes(false),
		pomodoro.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	events, cancel, err := a.Bus.Subscribe("task_*")
	if err != nil {
		log.Fatal(err)
	}
	defer cancel()

	resp := a.Router.Invoke(ctx, "main", "create_task", []byte(`{"data":{"title":"Plan"}}`))
	if resp.Error != "" {
		log.Fatal(resp.Error)
	}

	e := <-events
	fmt.Println(e.Name)
	// Output:
	// task_created
}
