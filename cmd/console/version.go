package main

import (
	"fmt"

	"spawn-admin/pkg/version"

	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nBuilt: %s\nGo: %s\nPlatform: %s\n",
				version.GetVersionString(), info.BuildDate, info.GoVersion, info.Platform)
		},
	}
}
