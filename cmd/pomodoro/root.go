package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/pomodoro"
)

var (
	verbose   bool
	configDir string
	dsn       string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Backend of the pomodoro focus timer",
	Long: `pomodoro runs the data layer of the focus timer: tasks, themes, intents
and projects stored in an embedded database, plus the settings file.
Commands can be invoked directly or served over HTTP to the UI shell.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: .pomodoro above the working directory, else the user config dir)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database location (default: pomodoro.db in the config directory)")
}

// openApp opens the backend using the persistent flags.
func openApp(ctx context.Context, extra ...pomodoro.Option) (*pomodoro.App, error) {
	opts := []pomodoro.Option{pomodoro.WithLogger(slog.Default())}
	if configDir != "" {
		opts = append(opts, pomodoro.WithConfigDir(configDir))
	}
	if dsn != "" {
		opts = append(opts, pomodoro.WithDSN(dsn))
	}
	return pomodoro.New(ctx, append(opts, extra...)...)
}
