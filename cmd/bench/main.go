package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/pomodoro"
	"github.com/aretw0/pomodoro/pkg/model"
)

func main() {
	count := flag.Int("count", 1000, "Number of tasks to generate")
	workers := flag.Int("workers", 8, "Concurrent writers")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "pomodoro_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	a, err := pomodoro.New(ctx,
		pomodoro.WithConfigDir(benchDir),
		pomodoro.WithLogger(logger),
		pomodoro.WithSeedThemes(false),
	)
	if err != nil {
		panic(err)
	}

	// Drain events so the bus is exercised the way a UI would.
	events, cancel, err := a.Bus.Subscribe("task_*")
	if err != nil {
		panic(err)
	}
	go func() {
		for range events {
		}
	}()

	mc, err := a.Ctx("bench")
	if err != nil {
		panic(err)
	}

	fmt.Printf("Creating %d tasks with %d writers in %s...\n", *count, *workers, benchDir)
	startGen := time.Now()

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				_, err := model.Tasks.Create(ctx, mc, model.TaskForCreate{
					Title: fmt.Sprintf("Task %d", i),
					Tags:  []string{"benchmark"},
				})
				if err != nil {
					panic(err)
				}
			}
		}()
	}
	for i := 0; i < *count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	genDuration := time.Since(startGen)

	fmt.Println("Running List (Run 1 - same process)...")
	start := time.Now()
	list, err := model.Tasks.List(ctx, mc)
	if err != nil {
		panic(err)
	}
	duration := time.Since(start)
	fmt.Printf("Run 1 Result: %v (Items: %d)\n", duration, len(list))

	cancel()
	if err := a.Close(); err != nil {
		panic(err)
	}

	// Reopen to measure a fresh process reading the database.
	a2, err := pomodoro.New(ctx,
		pomodoro.WithConfigDir(benchDir),
		pomodoro.WithLogger(logger),
		pomodoro.WithSeedThemes(false),
	)
	if err != nil {
		panic(err)
	}
	defer a2.Close()

	mc2, err := a2.Ctx("bench")
	if err != nil {
		panic(err)
	}

	fmt.Println("Running List (Run 2 - reopened)...")
	start2 := time.Now()
	list2, err := model.Tasks.List(ctx, mc2)
	if err != nil {
		panic(err)
	}
	duration2 := time.Since(start2)
	fmt.Printf("Run 2 Result: %v (Items: %d)\n", duration2, len(list2))

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d tasks):\n", *count)
	fmt.Printf("  Create:   %v (%v/op)\n", genDuration, genDuration/time.Duration(max(*count, 1)))
	fmt.Printf("  List:     %v\n", duration)
	fmt.Printf("  Reopened: %v\n", duration2)
	fmt.Printf("--------------------------------------------------\n")
}
