package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "aiagent"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// PathEnv overrides the config file location when set.
	PathEnv = "AIAGENT_CONFIG"
	// RootEnv overrides workspace.root when set.
	RootEnv = "AIAGENT_ROOT"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
	Getenv(key string) string
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (ConfigFileReader) Getenv(key string) string {
	return os.Getenv(key)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads configuration from $AIAGENT_CONFIG or ~/.config/aiagent/config.json
// and merges it with defaults. Dotfile values override defaults.
// Returns default config if the dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
//
// NOTE: This implementation unmarshals JSON keys directly over the default configuration.
// This allows explicit zero values (e.g., 0, false, "") in the config file to override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath, explicit := l.configPath()
	if configPath != "" {
		data, err := l.fs.ReadFile(configPath)
		switch {
		case err == nil:
			// Parse JSON directly into the default config struct.
			// Present keys overwrite defaults (even if zero), missing keys keep them.
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case os.IsNotExist(err) && !explicit:
			// Use defaults if the default dotfile doesn't exist
		default:
			return nil, err
		}
	}

	if root := l.fs.Getenv(RootEnv); root != "" {
		cfg.Workspace.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configPath returns the dotfile location and whether it was requested explicitly.
func (l *Loader) configPath() (string, bool) {
	if p := l.fs.Getenv(PathEnv); p != "" {
		return p, true
	}
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return "", false // Use defaults if can't get home dir
	}
	return filepath.Join(homeDir, ".config", ConfigDir, ConfigFile), false
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
