package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compassai/internal/app"
)

func newVersionCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"version": app.Version, "build": app.Build})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "compass %s (%s)\n", app.Version, app.Build)
			return err
		},
	}
}
