package provider

import "github.com/Cyclone1070/aiagent/internal/tool"

// Role identifies which party produced a Message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Message is one turn of a conversation.
//
//   - RoleUser: Content holds the request text.
//   - RoleModel: Content holds optional text, ToolCalls the ordered requests.
//   - RoleTool: ToolCallID, ToolName and Result describe one tool outcome.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
	Result     tool.Result
}

// Usage reports token counts of one or more model calls.
type Usage struct {
	PromptTokens   int
	ResponseTokens int
	TotalTokens    int
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		PromptTokens:   u.PromptTokens + o.PromptTokens,
		ResponseTokens: u.ResponseTokens + o.ResponseTokens,
		TotalTokens:    u.TotalTokens + o.TotalTokens,
	}
}

// Response is the model's reply to one Generate call.
type Response struct {
	Message Message
	Usage   Usage
	Model   string
}
