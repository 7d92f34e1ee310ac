// generate.go declares the 'cppforge generate' command: configure the
// project with a CMake preset, optionally exporting compile commands.
package main

import (
	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/pipeline"
	"github.com/example/cppforge/internal/term"
)

func newGenerateCommand(app *appState) *cobra.Command {
	var (
		presetName            string
		exportCompileCommands bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the CMake configure step for a preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := executePipeline(cmd.Context(), app, pipeline.VerbGenerate, presetName, "", exportCompileCommands); err != nil {
				return err
			}
			term.Success("Generate complete!")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "Name of the configure preset")
	cmd.Flags().BoolVar(&exportCompileCommands, "export-compile-commands", false, "Export compile-command metadata during configure")
	_ = cmd.MarkFlagRequired("preset")
	return cmd
}
