package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	command := NewConsoleCommand(newAppEnvironment())
	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewConsoleCommand builds the operator console
func NewConsoleCommand(env Environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "console [command]",
		Short:         "Spawn admin operator console",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(NewRefreshActionsCommand(env))
	cmd.AddCommand(NewListSeoUrlsCommand(env))
	cmd.AddCommand(NewOpenAPICommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
