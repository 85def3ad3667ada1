package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/presquile"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := presquile.GetVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "presquile %s (commit %s, built %s, %s)\n",
				info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		},
	}
}
