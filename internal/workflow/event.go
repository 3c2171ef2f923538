package workflow

import (
	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
)

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// ThinkingEvent is emitted before each model request.
type ThinkingEvent struct {
	Round int
}

func (ThinkingEvent) isEvent() {}

// TextEvent is emitted when the model produces text output. Final is set
// when the turn has no tool calls and the text is the answer.
type TextEvent struct {
	Text  string
	Final bool
}

func (TextEvent) isEvent() {}

// UsageEvent reports the token counts of one model response.
type UsageEvent struct {
	Round int
	Usage provider.Usage
}

func (UsageEvent) isEvent() {}

// ToolStartEvent is emitted when a tool execution begins.
type ToolStartEvent struct {
	ToolName       string
	CallID         string
	RequestDisplay string // e.g., directory="pkg"
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool execution completes.
type ToolEndEvent struct {
	ToolName string
	CallID   string
	Result   tool.Result
}

func (ToolEndEvent) isEvent() {}

// DoneEvent is emitted when the workflow loop completes.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
