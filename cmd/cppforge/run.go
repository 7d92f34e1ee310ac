// run.go declares the 'cppforge run' command: execute the project's binary
// for a preset, inferring the executable from CMakeLists.txt when needed.
package main

import (
	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/pipeline"
)

func newRunCommand(app *appState) *cobra.Command {
	var (
		presetName string
		executable string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the target executable for a preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePipeline(cmd.Context(), app, pipeline.VerbRun, presetName, executable, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "Name of the preset to run")
	cmd.Flags().StringVar(&executable, "executable", "", "Path to the executable (default: inferred from CMakeLists.txt)")
	_ = cmd.MarkFlagRequired("preset")
	return cmd
}
