package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	invokeWindow string
	invokeID     string
	invokeData   string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke [command]",
	Short: "Run a single command and print its JSON response",
	Long: `Run one named command, e.g.:

  pomodoro invoke create_task --data '{"title":"Write"}'
  pomodoro invoke archive_intent --id intent:abc

The response is {"data": ...} or {"error": "..."}. Use "commands" to list names.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := invokeArgs(invokeID, invokeData)
		if err != nil {
			fatal("Invalid arguments", err)
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			fatal("Failed to open pomodoro", err)
		}
		defer a.Close()

		resp := a.Router.Invoke(ctx, invokeWindow, args[0], raw)

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			fatal("Error encoding JSON", err)
		}
		if resp.Error != "" {
			a.Close()
			os.Exit(1)
		}
	},
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the available commands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(context.Background())
		if err != nil {
			fatal("Failed to open pomodoro", err)
		}
		defer a.Close()

		for _, name := range a.Router.Commands() {
			fmt.Println(name)
		}
	},
}

// invokeArgs builds the {"id", "data"} envelope from the flags.
func invokeArgs(id, data string) ([]byte, error) {
	envelope := map[string]any{}
	if id != "" {
		envelope["id"] = id
	}
	if data != "" {
		if !json.Valid([]byte(data)) {
			return nil, fmt.Errorf("--data is not valid JSON")
		}
		envelope["data"] = json.RawMessage(data)
	}
	return json.Marshal(envelope)
}

func init() {
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(commandsCmd)
	invokeCmd.Flags().StringVar(&invokeWindow, "window", "cli", "Window label reported with the command")
	invokeCmd.Flags().StringVar(&invokeID, "id", "", "Record id argument")
	invokeCmd.Flags().StringVar(&invokeData, "data", "", "JSON data argument")
}
