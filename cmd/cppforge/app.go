// app.go holds the per-invocation application state shared by every command:
// the loaded configuration, logger, and output mode.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/example/cppforge/internal/config"
	"github.com/example/cppforge/internal/logging"
	"github.com/example/cppforge/internal/term"
)

type appState struct {
	configPath string
	logLevel   string
	colorMode  string

	cfg    *config.Config
	logger *zap.Logger
}

func newAppState() *appState {
	return &appState{cfg: config.Default()}
}

// init runs once per invocation, before any command body.
func (a *appState) init() error {
	if err := term.Configure(a.colorMode); err != nil {
		return err
	}
	path := a.configPath
	if path == "" {
		path = os.Getenv("CPPFORGE_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := a.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
