// pipeline_test.go drives the step sequencer against a recording runner so no
// real toolchain binaries are needed.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/cppforge/internal/preset"
	"github.com/example/cppforge/internal/toolchain"
)

// fakeRunner records every spec and replays scripted exit codes.
type fakeRunner struct {
	specs []toolchain.Spec
	codes []int
	err   error
}

func (f *fakeRunner) Run(_ context.Context, spec toolchain.Spec) (int, error) {
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return 0, f.err
	}
	if len(f.codes) == 0 {
		return 0, nil
	}
	code := f.codes[0]
	f.codes = f.codes[1:]
	return code, nil
}

func resolvedFixture(dir string) *preset.Resolved {
	return &preset.Resolved{
		Name:      "debug",
		Kind:      preset.KindConfigure,
		Generator: "Ninja",
		BinaryDir: filepath.Join(dir, "build", "debug"),
	}
}

func TestStepsFor(t *testing.T) {
	cases := []struct {
		verb  Verb
		steps []Step
	}{
		{VerbGenerate, []Step{StepConfigure}},
		{VerbBuild, []Step{StepBuild}},
		{VerbRun, []Step{StepRun}},
		{VerbBuildRun, []Step{StepBuild, StepRun}},
	}
	for _, c := range cases {
		steps, err := StepsFor(c.verb)
		if err != nil {
			t.Fatalf("%s: %v", c.verb, err)
		}
		if len(steps) != len(c.steps) {
			t.Fatalf("%s: got %v", c.verb, steps)
		}
		for i := range steps {
			if steps[i] != c.steps[i] {
				t.Fatalf("%s: got %v, want %v", c.verb, steps, c.steps)
			}
		}
	}
	if _, err := StepsFor(Verb("bogus")); err == nil {
		t.Fatalf("unknown verb should error")
	}
}

func TestGenerateAssemblesConfigureCommand(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	p := New(resolvedFixture(dir), runner, Options{
		SourceDir:             dir,
		ExportCompileCommands: true,
		ExtraConfigureArgs:    []string{"-DFOO=bar"},
		Quiet:                 true,
	})
	if err := p.Execute(context.Background(), VerbGenerate); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(runner.specs) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.specs))
	}
	spec := runner.specs[0]
	if spec.Path != "cmake" {
		t.Fatalf("expected cmake, got %q", spec.Path)
	}
	joined := strings.Join(spec.Args, " ")
	if !strings.Contains(joined, "--preset=debug") {
		t.Fatalf("preset flag missing: %v", spec.Args)
	}
	if !strings.Contains(joined, "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON") {
		t.Fatalf("export flag missing: %v", spec.Args)
	}
	if !strings.Contains(joined, "-DFOO=bar") {
		t.Fatalf("extra args missing: %v", spec.Args)
	}
	// Configure must have created the binary directory.
	if fi, err := os.Stat(filepath.Join(dir, "build", "debug")); err != nil || !fi.IsDir() {
		t.Fatalf("binary directory not created: %v", err)
	}
}

func TestGenerateOmitsExportFlagByDefault(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	p := New(resolvedFixture(dir), runner, Options{SourceDir: dir, Quiet: true})
	if err := p.Execute(context.Background(), VerbGenerate); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, a := range runner.specs[0].Args {
		if strings.Contains(a, "EXPORT_COMPILE_COMMANDS") {
			t.Fatalf("export flag should be absent: %v", runner.specs[0].Args)
		}
	}
}

func TestBuildRequiresBinaryDir(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	p := New(resolvedFixture(dir), runner, Options{SourceDir: dir, Quiet: true})
	err := p.Execute(context.Background(), VerbBuild)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if pre.Step != StepBuild {
		t.Fatalf("wrong step in precondition error: %v", pre)
	}
	if len(runner.specs) != 0 {
		t.Fatalf("runner must not be invoked when the precondition fails")
	}
}

func TestBuildSelectsToolByGenerator(t *testing.T) {
	cases := []struct {
		generator string
		tool      string
	}{
		{"Ninja", "ninja"},
		{"Ninja Multi-Config", "ninja"},
		{"Unix Makefiles", "make"},
		{"MinGW Makefiles", "make"},
	}
	for _, c := range cases {
		dir := t.TempDir()
		cfg := resolvedFixture(dir)
		cfg.Generator = c.generator
		if err := os.MkdirAll(cfg.BinaryDir, 0o755); err != nil {
			t.Fatal(err)
		}
		runner := &fakeRunner{}
		p := New(cfg, runner, Options{SourceDir: dir, Quiet: true})
		if err := p.Execute(context.Background(), VerbBuild); err != nil {
			t.Fatalf("%s: build failed: %v", c.generator, err)
		}
		spec := runner.specs[0]
		if spec.Path != c.tool {
			t.Fatalf("%s: expected %q, got %q", c.generator, c.tool, spec.Path)
		}
		if len(spec.Args) != 2 || spec.Args[0] != "-C" || spec.Args[1] != cfg.BinaryDir {
			t.Fatalf("%s: unexpected args %v", c.generator, spec.Args)
		}
	}
}

func TestBuildUnsupportedGenerator(t *testing.T) {
	dir := t.TempDir()
	cfg := resolvedFixture(dir)
	cfg.Generator = "Xcode"
	if err := os.MkdirAll(cfg.BinaryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	p := New(cfg, runner, Options{SourceDir: dir, Quiet: true})
	err := p.Execute(context.Background(), VerbBuild)
	var ug *UnsupportedGeneratorError
	if !errors.As(err, &ug) {
		t.Fatalf("expected UnsupportedGeneratorError, got %v", err)
	}
	if ug.Generator != "Xcode" {
		t.Fatalf("error should carry the generator, got %q", ug.Generator)
	}
}

func TestBuildFallsBackToDefaultGenerator(t *testing.T) {
	dir := t.TempDir()
	cfg := resolvedFixture(dir)
	cfg.Generator = ""
	if err := os.MkdirAll(cfg.BinaryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	p := New(cfg, runner, Options{SourceDir: dir, DefaultGenerator: "Unix Makefiles", Quiet: true})
	if err := p.Execute(context.Background(), VerbBuild); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if runner.specs[0].Path != "make" {
		t.Fatalf("default generator not honored, got %q", runner.specs[0].Path)
	}
}

func TestBuildRunHaltsOnBuildFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := resolvedFixture(dir)
	if err := os.MkdirAll(cfg.BinaryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{codes: []int{2}}
	p := New(cfg, runner, Options{SourceDir: dir, Quiet: true})
	err := p.Execute(context.Background(), VerbBuildRun)
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if se.Step != StepBuild || se.Code != 2 {
		t.Fatalf("unexpected step error: %+v", se)
	}
	if len(runner.specs) != 1 {
		t.Fatalf("run step must not execute after a failed build, got %d invocations", len(runner.specs))
	}
}

func TestRunUsesExplicitExecutable(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "app")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	p := New(resolvedFixture(dir), runner, Options{SourceDir: dir, Executable: exe, Quiet: true})
	if err := p.Execute(context.Background(), VerbRun); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if runner.specs[0].Path != exe {
		t.Fatalf("explicit executable not used, got %q", runner.specs[0].Path)
	}
}

func TestRunUsesTargetExecutable(t *testing.T) {
	dir := t.TempDir()
	cfg := resolvedFixture(dir)
	cfg.TargetExecutable = "build/debug/app"
	exe := filepath.Join(dir, "build", "debug", "app")
	if err := os.MkdirAll(filepath.Dir(exe), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(exe, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	p := New(cfg, runner, Options{SourceDir: dir, Quiet: true})
	if err := p.Execute(context.Background(), VerbRun); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if runner.specs[0].Path != exe {
		t.Fatalf("target executable not resolved, got %q", runner.specs[0].Path)
	}
}

func TestRunInfersExecutableFromProjectName(t *testing.T) {
	dir := t.TempDir()
	cfg := resolvedFixture(dir)
	if err := os.WriteFile(filepath.Join(dir, "CMakeLists.txt"),
		[]byte("cmake_minimum_required(VERSION 3.28)\nproject(widget CXX)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	exe := filepath.Join(cfg.BinaryDir, "widget")
	if err := os.MkdirAll(cfg.BinaryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(exe, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	p := New(cfg, runner, Options{SourceDir: dir, Quiet: true})
	if err := p.Execute(context.Background(), VerbRun); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if runner.specs[0].Path != exe {
		t.Fatalf("inferred executable wrong, got %q", runner.specs[0].Path)
	}
}

func TestRunMissingExecutablePrecondition(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	p := New(resolvedFixture(dir), runner, Options{
		SourceDir:  dir,
		Executable: filepath.Join(dir, "nope"),
		Quiet:      true,
	})
	err := p.Execute(context.Background(), VerbRun)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if pre.Step != StepRun {
		t.Fatalf("wrong step: %v", pre)
	}
	if len(runner.specs) != 0 {
		t.Fatalf("runner must not launch a missing executable")
	}
}

func TestRunPassesEnvironment(t *testing.T) {
	dir := t.TempDir()
	cfg := resolvedFixture(dir)
	cfg.Environment = map[string]string{"APP_MODE": "test"}
	exe := filepath.Join(dir, "app")
	if err := os.WriteFile(exe, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	p := New(cfg, runner, Options{SourceDir: dir, Executable: exe, Quiet: true})
	if err := p.Execute(context.Background(), VerbRun); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	found := false
	for _, e := range runner.specs[0].Env {
		if e == "APP_MODE=test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("preset environment not forwarded: %v", runner.specs[0].Env)
	}
}

func TestRunnerErrorWrapped(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{err: &toolchain.LaunchError{Path: "cmake", Err: errors.New("not found")}}
	p := New(resolvedFixture(dir), runner, Options{SourceDir: dir, Quiet: true})
	err := p.Execute(context.Background(), VerbGenerate)
	var le *toolchain.LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("launch errors should stay unwrappable, got %v", err)
	}
}
