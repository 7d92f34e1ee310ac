// Package toolchain runs external build-tool processes, streaming their
// output through to the invoking terminal and reporting exit status. A
// failure to start a process (LaunchError) is kept distinct from a process
// that started and exited non-zero, since the former is a configuration
// problem and the latter a build problem.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// interruptExitCode is reported when the child dies to a forwarded signal
// instead of exiting on its own (128+SIGINT convention).
const interruptExitCode = 130

// Spec describes one toolchain invocation.
type Spec struct {
	// Path is the executable to run; looked up on PATH when not absolute.
	Path string
	// Args are the arguments, not including the executable itself.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env entries (KEY=VALUE) are appended to the process environment.
	Env []string
}

func (s Spec) String() string {
	return strings.Join(append([]string{s.Path}, s.Args...), " ")
}

// Runner executes a Spec and returns the child's exit status. The returned
// error is non-nil only when the process could not be launched or was
// cancelled before it could run.
type Runner interface {
	Run(ctx context.Context, spec Spec) (int, error)
}

// LaunchError reports a process that never started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("LaunchFailure: could not start %q: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// NewRunner returns a Runner wired to the invoking terminal.
func NewRunner() Runner {
	return &execRunner{stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}
}

// NewRunnerWithIO returns a Runner with explicit streams, used by tests and
// by callers that capture output.
func NewRunnerWithIO(stdout, stderr io.Writer, stdin io.Reader) Runner {
	return &execRunner{stdout: stdout, stderr: stderr, stdin: stdin}
}

func (r *execRunner) Run(ctx context.Context, spec Spec) (int, error) {
	if spec.Path == "" {
		return 0, &LaunchError{Path: spec.Path, Err: errors.New("empty executable path")}
	}
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Stdin = r.stdin

	// Forward an interrupt to the child on cancellation and give it a
	// moment to wind down before the hard kill.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Start(); err != nil {
		return 0, &LaunchError{Path: spec.Path, Err: err}
	}
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = interruptExitCode
		}
		return code, nil
	}
	return 0, &LaunchError{Path: spec.Path, Err: err}
}
