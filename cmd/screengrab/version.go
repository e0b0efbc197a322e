package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screengrab-dev/screengrab-go/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "screengrab %s\n%s %s\n", v.String(), v.GoVersion, v.Platform)
		},
	}
}
