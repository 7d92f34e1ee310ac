// spinup.go declares the 'cppforge spinup' command, which starts the
// development container described by the configured compose file.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/dockerup"
	"github.com/example/cppforge/internal/term"
	"github.com/example/cppforge/internal/toolchain"
)

func newSpinupCommand(app *appState) *cobra.Command {
	var (
		composeFile string
		service     string
	)
	cmd := &cobra.Command{
		Use:   "spinup",
		Short: "Spin up the development container",
		RunE: func(cmd *cobra.Command, args []string) error {
			file := composeFile
			if file == "" {
				file = app.cfg.Docker.ComposeFile
			}
			svc := service
			if svc == "" {
				svc = app.cfg.Docker.DefaultContainerName
			}
			term.Info("Starting Docker Compose...")
			code, err := dockerup.Up(cmd.Context(), toolchain.NewRunner(), dockerup.Options{
				ComposeFile: file,
				Service:     svc,
			})
			if err != nil {
				return err
			}
			if code != 0 {
				return fmt.Errorf("docker compose up exited with code %d", code)
			}
			term.Success("Container started successfully.")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&composeFile, "file", "", "Compose file (default: from cppforge.yaml)")
	cmd.Flags().StringVar(&service, "container", "", "Service to start (default: from cppforge.yaml)")
	return cmd
}
