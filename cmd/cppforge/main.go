// main.go bootstraps cppforge: it builds the root Cobra command and executes
// it with a signal-aware context so an interrupt reaches the running
// toolchain child before the pipeline halts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/cppforge/internal/pipeline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	app := newAppState()
	cmd := &cobra.Command{
		Use:           "cppforge",
		Short:         "C++ project builder driven by CMake presets",
		Long:          "cppforge resolves CMakePresets.json presets and drives the configure, build, and run steps of a C++ project, with scaffolding and dev-container helpers on the side.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}
	cmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Path to cppforge.yaml (default: search XDG/home config dirs)")
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level for cppforge output (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&app.colorMode, "color", "auto", "Color output: auto, always, or never")

	cmd.AddCommand(
		newGenerateCommand(app),
		newBuildCommand(app),
		newRunCommand(app),
		newBuildRunCommand(app),
		newClassCommand(app),
		newModuleCommand(app),
		newNewCommand(app),
		newSpinupCommand(app),
		newSetupCommand(app),
		newVersionCommand(),
	)
	cmd.Example = `  # Configure the project with the debug preset and export compile commands
  cppforge generate --preset debug --export-compile-commands

  # Build and immediately run the produced binary
  cppforge build-run --preset debug --executable build/debug/app

  # Scaffold a class and spin up the dev container
  cppforge class Parser
  cppforge spinup`
	return cmd
}

// handleError prints the failure the way every verb reports it: the error
// kind first, then the preset, field, or token implicated.
func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}

// exitCode propagates the failing step's own exit code where the toolchain
// provided one; everything else exits 1.
func exitCode(err error) int {
	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) && stepErr.Code > 0 {
		return stepErr.Code
	}
	return 1
}
