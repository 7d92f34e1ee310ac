// scaffold.go declares the 'class', 'module', and 'new' commands that write
// C++ source skeletons from the embedded templates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/scaffold"
	"github.com/example/cppforge/internal/term"
)

func newClassCommand(app *appState) *cobra.Command {
	var asModule bool
	cmd := &cobra.Command{
		Use:   "class NAME",
		Short: "Generate a C++ class header and implementation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := checkScaffoldTarget(name); err != nil {
				return err
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			var files []string
			if asModule {
				files, err = scaffold.ClassModule(wd, name)
			} else {
				files, err = scaffold.Class(wd, name)
			}
			if err != nil {
				return err
			}
			for _, f := range files {
				term.Info("Created %s", f)
			}
			term.Success("Class %q generated successfully.", name)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&asModule, "module", false, "Generate a module-flavored class unit instead of header/implementation")
	return cmd
}

func newModuleCommand(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "module NAME",
		Short: "Generate a C++ module implementation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := checkScaffoldTarget(name); err != nil {
				return err
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			files, err := scaffold.Module(wd, name)
			if err != nil {
				return err
			}
			for _, f := range files {
				term.Info("Created %s", f)
			}
			term.Success("Module %q generated successfully.", name)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func newNewCommand(app *appState) *cobra.Command {
	var prod bool
	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create a new C++ project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !scaffold.ValidIdentifier(name) {
				return invalidIdentifierError(name)
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir, err := scaffold.Project(wd, name, prod)
			if err != nil {
				return err
			}
			term.Success("Project %q successfully created in %s!", name, dir)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&prod, "prod", false, "Default the project to a Release build type")
	return cmd
}

// checkScaffoldTarget validates the identifier and requires a project
// directory (one containing CMakeLists.txt).
func checkScaffoldTarget(name string) error {
	if !scaffold.ValidIdentifier(name) {
		return invalidIdentifierError(name)
	}
	if _, err := os.Stat("CMakeLists.txt"); err != nil {
		return fmt.Errorf("not a project directory (no CMakeLists.txt here)")
	}
	return nil
}

func invalidIdentifierError(name string) error {
	return fmt.Errorf("invalid name %q: must start with a letter and contain only letters, numbers, and underscores", name)
}
