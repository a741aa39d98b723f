package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the config directory",
	Long: `Create the config directory with the default settings, the database and
the built-in themes. Running it again leaves existing data untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(context.Background())
		if err != nil {
			fatal("Failed to initialize", err)
		}
		defer a.Close()

		fmt.Println("Initialized pomodoro in", a.ConfigDir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
