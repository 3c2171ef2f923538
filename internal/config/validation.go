package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Provider validation
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}

	// Workspace validation
	if c.Workspace.Root == "" {
		errs = append(errs, "workspace.root must not be empty")
	}

	// Tools validation
	if c.Tools.MaxReadChars < 1 {
		errs = append(errs, "tools.max_read_chars must be >= 1")
	}
	if c.Tools.PythonInterpreter == "" {
		errs = append(errs, "tools.python_interpreter must not be empty")
	}
	if c.Tools.RunTimeoutSeconds < 1 {
		errs = append(errs, "tools.run_timeout_seconds must be >= 1")
	}
	if c.Tools.MaxCommandOutputSize < 1 {
		errs = append(errs, "tools.max_command_output_size must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 0 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 0")
	}
	if c.Tools.BinarySampleSizeBytes < 0 {
		errs = append(errs, "tools.binary_sample_size must be >= 0")
	}

	// Workflow validation
	if c.Workflow.MaxIterations < 1 {
		errs = append(errs, "workflow.max_iterations must be >= 1")
	}

	// Log validation
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is not a valid level", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, "log.format must be \"text\" or \"json\"")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
