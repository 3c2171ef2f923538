package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"Empty Model Fails", func(c *Config) { c.Provider.Model = "" }, "provider.model"},
		{"Empty Root Fails", func(c *Config) { c.Workspace.Root = "" }, "workspace.root"},
		{"Zero Read Cap Fails", func(c *Config) { c.Tools.MaxReadChars = 0 }, "max_read_chars"},
		{"Empty Interpreter Fails", func(c *Config) { c.Tools.PythonInterpreter = "" }, "python_interpreter"},
		{"Zero Timeout Fails", func(c *Config) { c.Tools.RunTimeoutSeconds = 0 }, "run_timeout_seconds"},
		{"Zero Output Size Fails", func(c *Config) { c.Tools.MaxCommandOutputSize = 0 }, "max_command_output_size"},
		{"Negative Shutdown Fails", func(c *Config) { c.Tools.GracefulShutdownMs = -1 }, "graceful_shutdown_ms"},
		{"Negative Sample Size Fails", func(c *Config) { c.Tools.BinarySampleSizeBytes = -1 }, "binary_sample_size"},
		{"Zero Iterations Fails", func(c *Config) { c.Workflow.MaxIterations = 0 }, "max_iterations"},
		{"Bad Log Level Fails", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"Bad Log Format Fails", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tools.MaxReadChars = 0
	cfg.Workflow.MaxIterations = 0

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_read_chars")
	assert.Contains(t, err.Error(), "max_iterations")
}

func TestValidate_ZeroShutdownAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tools.GracefulShutdownMs = 0
	assert.NoError(t, cfg.Validate())
}
