// Package pipeline sequences the configure, build, and run steps of one CLI
// verb over a resolved preset configuration. Steps execute strictly in order;
// the first failure halts the remainder and surfaces the failing step and its
// exit code. Nothing is retried or rolled back.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/cppforge/internal/preset"
	"github.com/example/cppforge/internal/term"
	"github.com/example/cppforge/internal/toolchain"
)

// Step is one external toolchain invocation.
type Step string

const (
	StepConfigure Step = "configure"
	StepBuild     Step = "build"
	StepRun       Step = "run"
)

// Verb is an external CLI operation mapping to an ordered subset of steps.
type Verb string

const (
	VerbGenerate Verb = "generate"
	VerbBuild    Verb = "build"
	VerbRun      Verb = "run"
	VerbBuildRun Verb = "build-run"
)

// StepsFor maps a verb to its ordered step sequence.
func StepsFor(verb Verb) ([]Step, error) {
	switch verb {
	case VerbGenerate:
		return []Step{StepConfigure}, nil
	case VerbBuild:
		return []Step{StepBuild}, nil
	case VerbRun:
		return []Step{StepRun}, nil
	case VerbBuildRun:
		return []Step{StepBuild, StepRun}, nil
	default:
		return nil, fmt.Errorf("unknown verb %q", verb)
	}
}

// StepError reports a step whose process exited non-zero.
type StepError struct {
	Step Step
	Code int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("StepFailed: %s step exited with code %d", e.Step, e.Code)
}

// PreconditionError reports a step that was refused before launch.
type PreconditionError struct {
	Step   Step
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s step precondition: %s", e.Step, e.Reason)
}

// UnsupportedGeneratorError reports a generator the build step cannot drive.
type UnsupportedGeneratorError struct {
	Generator string
}

func (e *UnsupportedGeneratorError) Error() string {
	return fmt.Sprintf("UnsupportedGenerator: %q (only Ninja and Makefiles are supported)", e.Generator)
}

// Options tune a single pipeline invocation.
type Options struct {
	// SourceDir is the project root; defaults to the working directory.
	SourceDir string
	// Executable overrides target-executable resolution for the run step.
	Executable string
	// ExportCompileCommands passes the compile-command export instruction
	// through to the configure step.
	ExportCompileCommands bool
	// ExtraConfigureArgs are appended to the cmake configure invocation.
	ExtraConfigureArgs []string
	// DefaultGenerator is used when the preset does not pin one.
	DefaultGenerator string
	// Quiet suppresses progress lines.
	Quiet bool
}

// Pipeline drives the steps of one verb against one resolved configuration.
type Pipeline struct {
	cfg    *preset.Resolved
	runner toolchain.Runner
	opts   Options
}

// New builds a pipeline over the given resolved configuration.
func New(cfg *preset.Resolved, runner toolchain.Runner, opts Options) *Pipeline {
	if opts.SourceDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.SourceDir = wd
		}
	}
	return &Pipeline{cfg: cfg, runner: runner, opts: opts}
}

// Execute runs the verb's steps in order, halting on the first failure.
func (p *Pipeline) Execute(ctx context.Context, verb Verb) error {
	steps, err := StepsFor(verb)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := p.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step) error {
	spec, err := p.specFor(step)
	if err != nil {
		return err
	}
	p.info("Running %s step: %s", step, spec)
	code, err := p.runner.Run(ctx, spec)
	if err != nil {
		return fmt.Errorf("%s step: %w", step, err)
	}
	if code != 0 {
		return &StepError{Step: step, Code: code}
	}
	p.info("%s step completed.", step)
	return nil
}

func (p *Pipeline) specFor(step Step) (toolchain.Spec, error) {
	switch step {
	case StepConfigure:
		return p.configureSpec()
	case StepBuild:
		return p.buildSpec()
	case StepRun:
		return p.runSpec()
	default:
		return toolchain.Spec{}, fmt.Errorf("unknown step %q", step)
	}
}

// configureSpec builds the cmake invocation. The binary directory is created
// here so the subsequent build step's precondition can hold.
func (p *Pipeline) configureSpec() (toolchain.Spec, error) {
	if dir := p.binaryDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return toolchain.Spec{}, fmt.Errorf("create binary directory %s: %w", dir, err)
		}
	}
	args := []string{"--preset=" + p.cfg.Name}
	if p.opts.ExportCompileCommands {
		args = append(args, "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON")
	}
	args = append(args, p.opts.ExtraConfigureArgs...)
	return toolchain.Spec{
		Path: "cmake",
		Args: args,
		Dir:  p.opts.SourceDir,
		Env:  p.envList(),
	}, nil
}

func (p *Pipeline) buildSpec() (toolchain.Spec, error) {
	dir := p.binaryDir()
	if dir == "" {
		dir = filepath.Join(p.opts.SourceDir, "build")
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return toolchain.Spec{}, &PreconditionError{
			Step:   StepBuild,
			Reason: fmt.Sprintf("binary directory %q does not exist; run generate first", dir),
		}
	}
	gen := strings.ToLower(p.generator())
	switch {
	case strings.Contains(gen, "ninja"):
		return toolchain.Spec{Path: "ninja", Args: []string{"-C", dir}, Dir: p.opts.SourceDir, Env: p.envList()}, nil
	case strings.Contains(gen, "make"):
		return toolchain.Spec{Path: "make", Args: []string{"-C", dir}, Dir: p.opts.SourceDir, Env: p.envList()}, nil
	default:
		return toolchain.Spec{}, &UnsupportedGeneratorError{Generator: p.generator()}
	}
}

func (p *Pipeline) runSpec() (toolchain.Spec, error) {
	exe, err := p.resolveExecutable()
	if err != nil {
		return toolchain.Spec{}, err
	}
	if fi, err := os.Stat(exe); err != nil || fi.IsDir() {
		return toolchain.Spec{}, &PreconditionError{
			Step:   StepRun,
			Reason: fmt.Sprintf("executable %q does not exist; did the build succeed?", exe),
		}
	}
	return toolchain.Spec{Path: exe, Dir: p.opts.SourceDir, Env: p.envList()}, nil
}

// resolveExecutable picks, in order: the explicit --executable flag, the
// preset's targetExecutable, then the project name from CMakeLists.txt
// relative to the binary directory.
func (p *Pipeline) resolveExecutable() (string, error) {
	if p.opts.Executable != "" {
		return p.opts.Executable, nil
	}
	if p.cfg.TargetExecutable != "" {
		return p.absolutize(p.cfg.TargetExecutable), nil
	}
	p.info("No executable provided. Inferring from CMakeLists.txt...")
	name, err := ProjectName(filepath.Join(p.opts.SourceDir, "CMakeLists.txt"))
	if err != nil {
		return "", &PreconditionError{Step: StepRun, Reason: err.Error()}
	}
	dir := p.binaryDir()
	if dir == "" {
		dir = filepath.Join(p.opts.SourceDir, "build")
	}
	return filepath.Join(dir, name), nil
}

func (p *Pipeline) binaryDir() string {
	if p.cfg.BinaryDir == "" {
		return ""
	}
	return p.absolutize(p.cfg.BinaryDir)
}

func (p *Pipeline) absolutize(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.opts.SourceDir, path)
}

func (p *Pipeline) generator() string {
	if p.cfg.Generator != "" {
		return p.cfg.Generator
	}
	return p.opts.DefaultGenerator
}

// envList flattens the resolved environment for the executor. Cache
// variables travel on the cmake command line, not here.
func (p *Pipeline) envList() []string {
	if len(p.cfg.Environment) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.cfg.Environment))
	for k, v := range p.cfg.Environment {
		out = append(out, k+"="+v)
	}
	return out
}

func (p *Pipeline) info(format string, args ...any) {
	if p.opts.Quiet {
		return
	}
	term.Info(format, args...)
}
