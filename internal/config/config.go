package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoLocalConfig is returned by LoadLocal when the root has no config file.
	ErrNoLocalConfig = errors.New("no local config")
	// ErrNoGlobalConfig is returned by LoadGlobal when no global config exists.
	ErrNoGlobalConfig = errors.New("no global config")
)

// FileConfig is the on-disk YAML configuration shape. Pointer fields tell
// "unset" apart from zero values so local files can override global ones.
type FileConfig struct {
	Include         *string `yaml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty"`
	Threads         *int    `yaml:"threads,omitempty"`
	Enable          *string `yaml:"enable,omitempty"`
	Disable         *string `yaml:"disable,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty"`
	NoCache         *bool   `yaml:"no_cache,omitempty"`
	Format          *string `yaml:"format,omitempty"`
	LogLevel        *string `yaml:"log_level,omitempty"`
	LogFormat       *string `yaml:"log_format,omitempty"`
}

var localNames = []string{".iocdefang.yml", ".iocdefang.yaml", "iocdefang.yml", "iocdefang.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given root. Dotfiles win over
// plain names.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range localNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNoLocalConfig
}

// GlobalPath returns $XDG_CONFIG_HOME/iocdefang/config.yml, falling back to
// ~/.config. It is empty when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "iocdefang", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, ErrNoGlobalConfig
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNoGlobalConfig
	}
	return LoadFile(p)
}

// Merge returns a config where every field set in over replaces the one in
// base.
func Merge(base, over FileConfig) FileConfig {
	out := base
	if over.Include != nil {
		out.Include = over.Include
	}
	if over.Exclude != nil {
		out.Exclude = over.Exclude
	}
	if over.MaxBytes != nil {
		out.MaxBytes = over.MaxBytes
	}
	if over.Threads != nil {
		out.Threads = over.Threads
	}
	if over.Enable != nil {
		out.Enable = over.Enable
	}
	if over.Disable != nil {
		out.Disable = over.Disable
	}
	if over.NoColor != nil {
		out.NoColor = over.NoColor
	}
	if over.DefaultExcludes != nil {
		out.DefaultExcludes = over.DefaultExcludes
	}
	if over.NoCache != nil {
		out.NoCache = over.NoCache
	}
	if over.Format != nil {
		out.Format = over.Format
	}
	if over.LogLevel != nil {
		out.LogLevel = over.LogLevel
	}
	if over.LogFormat != nil {
		out.LogFormat = over.LogFormat
	}
	return out
}

// Marshal renders cfg as YAML.
func Marshal(cfg FileConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
