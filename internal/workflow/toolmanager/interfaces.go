package toolmanager

import (
	"context"
	"time"

	"github.com/Cyclone1070/aiagent/internal/tool"
)

// toolImpl defines the interface for individual tools.
// Request structs should implement fmt.Stringer for display.
type toolImpl interface {
	// Name returns the tool's identifier.
	Name() string

	// Declaration returns the tool's schema for the model.
	Declaration() tool.Declaration

	// Input returns a pointer to the input struct (e.g., &WriteFileRequest{}).
	// Fields are decoded by their mapstructure tags.
	Input() any

	// Execute runs the tool with typed input. Tool-level problems are
	// returned as a Failure result; an error means the run was cancelled.
	Execute(ctx context.Context, input any) (tool.Result, error)
}

// metricsRecorder records tool call outcomes.
type metricsRecorder interface {
	RecordToolCall(tool string, failed bool, d time.Duration)
}
