package gemini

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// toGeminiContents converts a transcript to Gemini Content format.
// Consecutive tool messages are grouped into a single user turn holding one
// FunctionResponse part per result, in transcript order.
func toGeminiContents(messages []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))

	var pending *genai.Content
	flush := func() {
		if pending != nil {
			contents = append(contents, pending)
			pending = nil
		}
	}

	for _, msg := range messages {
		if msg.Role == provider.RoleTool {
			if pending == nil {
				pending = &genai.Content{Role: "user"}
			}
			pending.Parts = append(pending.Parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolCallID,
					Name:     msg.ToolName,
					Response: msg.Result.Envelope(),
				},
			})
			continue
		}

		flush()
		if content := messageToGeminiContent(msg); content != nil {
			contents = append(contents, content)
		}
	}
	flush()

	return contents
}

// messageToGeminiContent converts a user or model message to Gemini Content format.
func messageToGeminiContent(msg provider.Message) *genai.Content {
	role := "user"
	if msg.Role == provider.RoleModel {
		role = "model"
	}

	parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   call.ID,
				Name: call.Name,
				Args: call.Args,
			},
		})
	}

	// Skip empty messages
	if len(parts) == 0 {
		return nil
	}

	return &genai.Content{
		Role:  role,
		Parts: parts,
	}
}

// toGeminiConfig builds the per-request config: system instruction, tools and safety settings.
func toGeminiConfig(systemInstruction string, tools []tool.Declaration) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
		Tools:          toGeminiTools(tools),
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(systemInstruction)},
		}
	}
	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts tool declarations to Gemini tools.
func toGeminiTools(tools []tool.Declaration) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	functionDeclarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, decl := range tools {
		fd := &genai.FunctionDeclaration{
			Name:        decl.Name,
			Description: decl.Description,
		}
		if decl.Parameters != nil {
			fd.Parameters = toGeminiSchema(decl.Parameters)
		}
		functionDeclarations = append(functionDeclarations, fd)
	}

	return []*genai.Tool{
		{FunctionDeclarations: functionDeclarations},
	}
}

// toGeminiSchema converts a tool schema to Gemini Schema, recursing into
// properties and array items.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		schema.Enum = s.Enum
	}
	if len(s.Required) > 0 {
		schema.Required = s.Required
	}
	if s.Items != nil {
		schema.Items = toGeminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}

	return schema
}

// toGeminiType converts a schema type to Gemini Type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts a Gemini response to a model message.
// Calls without an ID are assigned one so results can be correlated.
func fromGeminiResponse(resp *genai.GenerateContentResponse, modelUsed string) (*provider.Response, error) {
	if resp == nil {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeEmptyResponse,
			Message: "nil response",
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeContentBlocked,
			Message: fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}

	if len(resp.Candidates) == 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeEmptyResponse,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]

	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeContentBlocked,
			Message: "content blocked by safety filters",
		}
	}

	msg := provider.Message{Role: provider.RoleModel}
	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.Thought {
				continue
			}
			if part.Text != "" {
				text.WriteString(part.Text)
			}
			if part.FunctionCall != nil {
				id := part.FunctionCall.ID
				if id == "" {
					id = uuid.NewString()
				}
				args := part.FunctionCall.Args
				if args == nil {
					args = map[string]any{}
				}
				msg.ToolCalls = append(msg.ToolCalls, provider.ToolCall{
					ID:   id,
					Name: part.FunctionCall.Name,
					Args: args,
				})
			}
		}
		msg.Content = text.String()
	}

	return &provider.Response{
		Message: msg,
		Usage:   usageFromMetadata(resp.UsageMetadata),
		Model:   modelUsed,
	}, nil
}

// usageFromMetadata converts usage metadata to token counts.
// Missing metadata yields zero counts.
func usageFromMetadata(usage *genai.GenerateContentResponseUsageMetadata) provider.Usage {
	if usage == nil {
		return provider.Usage{}
	}
	return provider.Usage{
		PromptTokens:   int(usage.PromptTokenCount),
		ResponseTokens: int(usage.CandidatesTokenCount),
		TotalTokens:    int(usage.TotalTokenCount),
	}
}

// asAPIError extracts a Gemini API error from err's chain.
func asAPIError(err error) (*genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr, true
	}
	return nil, false
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	switch apiErr.Code {
	case 401, 403:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case 429:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
			Retryable:  true,
			RetryAfter: parseRetryAfter(apiErr),
		}
	case 400:
		code := provider.ErrorCodeInvalidRequest
		if strings.Contains(strings.ToLower(apiErr.Message), "token") {
			code = provider.ErrorCodeContextLength
		}
		return &provider.ProviderError{
			Code:       code,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
		}
	case 500, 502, 503, 504:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
			Retryable:  true,
		}
	}
}

// parseRetryAfter reads the retry delay from a google.rpc.RetryInfo detail.
// Returns nil when no usable delay is present.
func parseRetryAfter(apiErr *genai.APIError) *time.Duration {
	if apiErr == nil {
		return nil
	}
	for _, detail := range apiErr.Details {
		if d := parseRetryValue(detail["retryDelay"]); d != nil {
			return d
		}
		if metadata, ok := detail["metadata"].(map[string]any); ok {
			if d := parseRetryValue(metadata["retryDelay"]); d != nil {
				return d
			}
		}
	}
	return nil
}

// parseRetryValue accepts "30s" style durations, bare second counts and
// {"seconds": n} objects.
func parseRetryValue(v any) *time.Duration {
	var d time.Duration
	switch val := v.(type) {
	case string:
		if parsed, err := time.ParseDuration(val); err == nil {
			d = parsed
		} else if secs, err := strconv.ParseFloat(val, 64); err == nil {
			d = time.Duration(secs * float64(time.Second))
		} else {
			return nil
		}
	case float64:
		d = time.Duration(val * float64(time.Second))
	case int:
		d = time.Duration(val) * time.Second
	case int64:
		d = time.Duration(val) * time.Second
	case map[string]any:
		return parseRetryValue(val["seconds"])
	default:
		return nil
	}
	if d <= 0 {
		return nil
	}
	return &d
}
