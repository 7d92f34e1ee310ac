package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/example/cppforge/internal/pipeline"
	"github.com/example/cppforge/internal/preset"
)

func TestRootCommandRegistersVerbs(t *testing.T) {
	root := newRootCommand()
	want := []string{
		"generate", "build", "run", "build-run",
		"class", "module", "new", "spinup", "setup", "version",
	}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("command %q not registered", name)
		}
	}
}

func TestRootCommandDeclaresGlobalFlags(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"config", "log-level", "color"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("persistent flag %q missing", name)
		}
	}
}

func TestPipelineVerbsRequirePresetFlag(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"generate", "build", "run", "build-run"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("command %q not found: %v", name, err)
		}
		flag := cmd.Flags().Lookup("preset")
		if flag == nil {
			t.Fatalf("command %q has no --preset flag", name)
		}
		// MarkFlagRequired records itself as a flag annotation.
		if len(flag.Annotations[cobra.BashCompOneRequiredFlag]) == 0 {
			t.Fatalf("command %q does not require --preset", name)
		}
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(errors.New("plain")); got != 1 {
		t.Fatalf("plain error should exit 1, got %d", got)
	}
	if got := exitCode(&pipeline.StepError{Step: pipeline.StepBuild, Code: 2}); got != 2 {
		t.Fatalf("step failure should propagate its code, got %d", got)
	}
	wrapped := errors.Join(errors.New("context"), &pipeline.StepError{Step: pipeline.StepRun, Code: 7})
	if got := exitCode(wrapped); got != 7 {
		t.Fatalf("wrapped step failure should propagate its code, got %d", got)
	}
}

func TestVerbKind(t *testing.T) {
	cases := []struct {
		verb pipeline.Verb
		kind preset.Kind
	}{
		{pipeline.VerbGenerate, preset.KindConfigure},
		{pipeline.VerbBuild, preset.KindBuild},
		{pipeline.VerbRun, preset.KindRun},
		{pipeline.VerbBuildRun, preset.KindConfigure},
	}
	for _, c := range cases {
		if got := verbKind(c.verb); got != c.kind {
			t.Fatalf("verbKind(%s) = %s, want %s", c.verb, got, c.kind)
		}
	}
}

func TestParseExtraArgs(t *testing.T) {
	args, err := parseExtraArgs(`-DFOO=bar "-DGREETING=hello world"`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(args) != 2 || args[0] != "-DFOO=bar" || args[1] != "-DGREETING=hello world" {
		t.Fatalf("unexpected args: %v", args)
	}
	args, err = parseExtraArgs("")
	if err != nil || args != nil {
		t.Fatalf("empty input should produce no args, got %v err=%v", args, err)
	}
	if _, err := parseExtraArgs(`-DBROKEN="unterminated`); err == nil {
		t.Fatalf("unterminated quoting should error")
	}
}
