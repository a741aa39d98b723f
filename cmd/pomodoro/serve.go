package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve commands and events over HTTP",
	Long: `Serve the command bridge for the UI shell:

  POST /invoke/:command   run a command, body {"id": ..., "data": ...}
  GET  /events            websocket stream of events (?pattern=task_*)
  GET  /commands          list command names
  GET  /state             component state
  GET  /metrics           Prometheus metrics`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		a, err := openApp(ctx)
		if err != nil {
			fatal("Failed to open pomodoro", err)
		}
		defer a.Close()

		if serveWatch {
			if err := a.Settings.Watch(ctx); err != nil {
				fatal("Failed to watch settings", err)
			}
		}

		if err := a.Server().ListenAndServe(ctx, serveAddr); err != nil {
			slog.Error("server stopped", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:7425", "Listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "Reload settings.yaml when it changes on disk")
}
