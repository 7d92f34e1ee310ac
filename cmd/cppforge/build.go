// build.go declares the 'cppforge build' command: build the project in the
// preset's binary directory with the preset's generator.
package main

import (
	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/pipeline"
	"github.com/example/cppforge/internal/term"
)

func newBuildCommand(app *appState) *cobra.Command {
	var presetName string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project using a preset's generator and binary directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := executePipeline(cmd.Context(), app, pipeline.VerbBuild, presetName, "", false); err != nil {
				return err
			}
			term.Success("Build completed successfully.")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "Name of the preset to build")
	_ = cmd.MarkFlagRequired("preset")
	return cmd
}
