package loop

import (
	"context"
	"time"

	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/workflow"
)

// llmProvider communicates with an LLM.
type llmProvider interface {
	// Generate sends the transcript to the LLM and returns its next turn.
	Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

// toolManager manages tool storage and execution.
type toolManager interface {
	// Declarations returns all tool schemas for the LLM.
	Declarations() []tool.Declaration

	// Execute runs a tool call and returns the result as a provider.Message.
	// It emits ToolStartEvent and ToolEndEvent to the events channel.
	Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error)
}

// metricsRecorder records model calls and run length.
type metricsRecorder interface {
	RecordModelCall(failed bool, d time.Duration, promptTokens, responseTokens int)
	RecordRounds(rounds int)
}
