// Package dockerup starts the development container: it validates the
// compose file and requested service with the compose loader, then issues a
// single `docker compose up -d` through the process executor. Container
// lifecycle beyond that one invocation is out of scope.
package dockerup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"

	"github.com/example/cppforge/internal/toolchain"
)

// Options select the compose file and target service.
type Options struct {
	ComposeFile string
	Service     string
	// ProjectDir is exported to the container as PROJECT_DIR; defaults to
	// the working directory.
	ProjectDir string
}

// Up validates the compose project and starts the requested service
// detached. The returned int is the docker exit code when non-zero.
func Up(ctx context.Context, runner toolchain.Runner, opts Options) (int, error) {
	path, err := filepath.Abs(opts.ComposeFile)
	if err != nil {
		return 0, fmt.Errorf("abs %s: %w", opts.ComposeFile, err)
	}
	project, err := loadProject(ctx, path)
	if err != nil {
		return 0, err
	}
	service := strings.TrimSpace(opts.Service)
	if service == "" {
		return 0, fmt.Errorf("no container service name given")
	}
	if _, err := project.GetService(service); err != nil {
		return 0, fmt.Errorf("service %q not defined in %s (available: %s)",
			service, path, strings.Join(project.ServiceNames(), ", "))
	}

	projectDir := opts.ProjectDir
	if projectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			projectDir = wd
		}
	}
	code, err := runner.Run(ctx, toolchain.Spec{
		Path: "docker",
		Args: []string{"compose", "-f", path, "up", "-d", service},
		Env:  []string{"PROJECT_DIR=" + projectDir},
	})
	if err != nil {
		return 0, err
	}
	return code, nil
}

// loadProject parses the compose file, expanding interpolations against the
// process environment the same way docker compose itself would.
func loadProject(ctx context.Context, path string) (*composetypes.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compose file %s does not exist: %w", path, err)
	}

	env := make(composetypes.Mapping)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[key] = value
	}

	details := composetypes.ConfigDetails{
		WorkingDir:  filepath.Dir(path),
		ConfigFiles: []composetypes.ConfigFile{{Filename: path, Content: data}},
		Environment: env,
	}
	project, err := loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SetProjectName(projectNameFor(path), true)
		o.SkipConsistencyCheck = true
	})
	if err != nil {
		return nil, fmt.Errorf("parse compose file %s: %w", path, err)
	}
	return project, nil
}

func projectNameFor(path string) string {
	base := strings.ToLower(filepath.Base(filepath.Dir(path)))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	name := strings.TrimLeft(b.String(), "-_")
	if name == "" {
		return "cppforge"
	}
	return name
}
