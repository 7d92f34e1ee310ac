// engine.go is the shared plumbing behind the pipeline verbs: it loads the
// presets document, selects and expands the requested preset, and executes
// the verb's step sequence.
package main

import (
	"context"
	"fmt"
	"os"

	shellwords "github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/example/cppforge/internal/pipeline"
	"github.com/example/cppforge/internal/preset"
	"github.com/example/cppforge/internal/toolchain"
)

// verbKind maps each pipeline verb to the preset kind it selects. Build and
// run verbs fall back to the configure kind when no preset of their own kind
// carries the requested name, which keeps single-section preset files (the
// common case) working unchanged.
func verbKind(verb pipeline.Verb) preset.Kind {
	switch verb {
	case pipeline.VerbBuild:
		return preset.KindBuild
	case pipeline.VerbRun:
		return preset.KindRun
	default:
		return preset.KindConfigure
	}
}

func selectPreset(app *appState, verb pipeline.Verb, name string) (*preset.Resolved, error) {
	doc, err := preset.Load(app.cfg.CMake.PresetsPath)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	ctx := preset.ExpandContext{SourceDir: wd}

	kind := verbKind(verb)
	res, err := preset.Select(doc, kind, name, ctx)
	if err != nil && kind != preset.KindConfigure && preset.ClassOf(err) == preset.ClassPresetNotFound {
		app.logger.Debug("falling back to configure preset",
			zap.String("preset", name), zap.String("kind", string(kind)))
		return preset.Select(doc, preset.KindConfigure, name, ctx)
	}
	return res, err
}

func executePipeline(ctx context.Context, app *appState, verb pipeline.Verb, presetName, executable string, exportCompileCommands bool) error {
	res, err := selectPreset(app, verb, presetName)
	if err != nil {
		return err
	}
	extraArgs, err := parseExtraArgs(app.cfg.CMake.ExtraArgs)
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	p := pipeline.New(res, toolchain.NewRunner(), pipeline.Options{
		SourceDir:             wd,
		Executable:            executable,
		ExportCompileCommands: exportCompileCommands,
		ExtraConfigureArgs:    extraArgs,
		DefaultGenerator:      app.cfg.CMake.DefaultGenerator,
	})
	return p.Execute(ctx, verb)
}

// parseExtraArgs splits the configured extra cmake arguments shell-style.
func parseExtraArgs(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse cmake.extra_args: %w", err)
	}
	return args, nil
}
