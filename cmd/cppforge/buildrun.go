// buildrun.go declares the 'cppforge build-run' command: build, then run,
// halting before the run step if the build fails.
package main

import (
	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/pipeline"
)

func newBuildRunCommand(app *appState) *cobra.Command {
	var (
		presetName string
		executable string
	)
	cmd := &cobra.Command{
		Use:   "build-run",
		Short: "Build the project and run the target executable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePipeline(cmd.Context(), app, pipeline.VerbBuildRun, presetName, executable, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "Name of the preset to build and run")
	cmd.Flags().StringVar(&executable, "executable", "", "Path to the executable (default: inferred from CMakeLists.txt)")
	_ = cmd.MarkFlagRequired("preset")
	return cmd
}
