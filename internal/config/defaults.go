package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider  ProviderConfig  `json:"provider"`
	Workspace WorkspaceConfig `json:"workspace"`
	Tools     ToolsConfig     `json:"tools"`
	Workflow  WorkflowConfig  `json:"workflow"`
	Log       LogConfig       `json:"log"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

type ProviderConfig struct {
	Model             string `json:"model"`              // Default: gemini-2.0-flash-001
	SystemInstruction string `json:"system_instruction"` // Default: DefaultSystemInstruction
}

type WorkspaceConfig struct {
	// Root is the sandbox root. Relative values are resolved against the
	// process working directory.
	Root string `json:"root"` // Default: "."
}

type ToolsConfig struct {
	// File Operations
	MaxReadChars int `json:"max_read_chars"` // Default: 10000

	// Directory Listing
	RespectGitignore bool `json:"respect_gitignore"` // Default: false

	// Script Execution
	PythonInterpreter     string `json:"python_interpreter"`      // Default: python3
	RunTimeoutSeconds     int    `json:"run_timeout_seconds"`     // Default: 30
	MaxCommandOutputSize  int64  `json:"max_command_output_size"` // Default: 1024 * 1024 (1MB)
	GracefulShutdownMs    int    `json:"graceful_shutdown_ms"`    // Default: 2000
	BinarySampleSizeBytes int    `json:"binary_sample_size"`      // Default: 8000
}

type WorkflowConfig struct {
	MaxIterations int `json:"max_iterations"` // Default: 20
}

type LogConfig struct {
	Level  string `json:"level"`  // Default: warning
	Format string `json:"format"` // Default: text
}

type TelemetryConfig struct {
	ServiceName     string `json:"service_name"`     // Default: aiagent
	MetricsTextfile string `json:"metrics_textfile"` // Default: "" (disabled)
	OTLPEndpoint    string `json:"otlp_endpoint"`    // Default: "" (tracing disabled)
	OTLPInsecure    bool   `json:"otlp_insecure"`
}

// DefaultSystemInstruction is sent with every model request.
const DefaultSystemInstruction = `You are a helpful AI coding agent.

When a user asks a question or makes a request, make a function call plan. You can perform the following operations:

- List files and directories
- Read file contents
- Execute Python files with optional arguments
- Write or overwrite files

All paths you provide should be relative to the working directory. You do not need to specify the working directory in your function calls as it is automatically injected for security reasons.`

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:             "gemini-2.0-flash-001",
			SystemInstruction: DefaultSystemInstruction,
		},
		Workspace: WorkspaceConfig{
			Root: ".",
		},
		Tools: ToolsConfig{
			MaxReadChars:          10000,
			RespectGitignore:      false,
			PythonInterpreter:     "python3",
			RunTimeoutSeconds:     30,
			MaxCommandOutputSize:  1024 * 1024,
			GracefulShutdownMs:    2000,
			BinarySampleSizeBytes: 8000,
		},
		Workflow: WorkflowConfig{
			MaxIterations: 20,
		},
		Log: LogConfig{
			Level:  "warning",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "aiagent",
		},
	}
}
