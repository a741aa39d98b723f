package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pomodoro"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pomodoro",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pomodoro version %s\n", pomodoro.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
