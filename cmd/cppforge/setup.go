// setup.go declares the 'cppforge setup' command, which writes the default
// configuration file for later editing.
package main

import (
	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/config"
	"github.com/example/cppforge/internal/term"
)

func newSetupCommand(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Write the default cppforge.yaml configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault("")
			if err != nil {
				return err
			}
			term.Success("Configuration available at %s", path)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
