// version.go declares the 'cppforge version' command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cppforge version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().Short())
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
