package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/promptlib/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "promptlib %s\n", version.Version)
			fmt.Fprintf(out, "  Go:     %s\n", version.GoVersion)
			fmt.Fprintf(out, "  Commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  Date:   %s\n", version.BuildDate)
		},
	}
}
