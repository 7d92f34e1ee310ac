// Package config loads the process-wide cppforge configuration: a single
// immutable value read once at startup from cppforge.yaml, merged over
// defaults, with CPPFORGE_-prefixed environment overrides. It is passed
// explicitly to the components that need it, never held as mutable globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// CMakeConfig holds defaults for the preset engine and pipeline.
type CMakeConfig struct {
	PresetsPath      string `mapstructure:"presets_path" yaml:"presets_path"`
	DefaultGenerator string `mapstructure:"default_generator" yaml:"default_generator"`
	ExtraArgs        string `mapstructure:"extra_args" yaml:"extra_args,omitempty"`
}

// DockerConfig holds defaults for the dev-container spinup.
type DockerConfig struct {
	ComposeFile          string `mapstructure:"docker_compose_file" yaml:"docker_compose_file"`
	DefaultContainerName string `mapstructure:"default_container_name" yaml:"default_container_name"`
}

// Config is the merged runtime configuration.
type Config struct {
	CMake    CMakeConfig  `mapstructure:"cmake" yaml:"cmake"`
	Docker   DockerConfig `mapstructure:"docker" yaml:"docker"`
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CMake: CMakeConfig{
			PresetsPath:      "CMakePresets.json",
			DefaultGenerator: "Ninja",
		},
		Docker: DockerConfig{
			ComposeFile:          "docker-compose.yml",
			DefaultContainerName: "gcc-clang-dev",
		},
		LogLevel: "info",
	}
}

// Load reads the configuration, searching the usual directories unless an
// explicit path is given. A missing file is not an error; defaults apply.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("cppforge")
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}
	v.SetEnvPrefix("CPPFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("cmake.presets_path", def.CMake.PresetsPath)
	v.SetDefault("cmake.default_generator", def.CMake.DefaultGenerator)
	v.SetDefault("cmake.extra_args", def.CMake.ExtraArgs)
	v.SetDefault("docker.docker_compose_file", def.Docker.ComposeFile)
	v.SetDefault("docker.default_container_name", def.Docker.DefaultContainerName)
	v.SetDefault("log_level", def.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No file anywhere on the search path; defaults apply.
		} else if explicitPath != "" {
			return nil, fmt.Errorf("read config %s: %w", explicitPath, err)
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// WriteDefault creates the default configuration file under the user config
// directory (or dir when non-empty) and returns its path. An existing file is
// left untouched.
func WriteDefault(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "cppforge")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, "cppforge.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func searchDirs() []string {
	added := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := added[path]; ok {
			return
		}
		added[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		add(filepath.Join(xdg, "cppforge"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		add(filepath.Join(home, ".config", "cppforge"))
		add(filepath.Join(home, ".cppforge"))
	}
	add(".")
	return dirs
}
