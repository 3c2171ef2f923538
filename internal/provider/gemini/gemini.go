package gemini

import (
	"context"

	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/sirupsen/logrus"
)

// GeminiProvider sends transcripts to a Gemini model.
// It holds no per-request state and is safe for concurrent use.
type GeminiProvider struct {
	client            GeminiClient
	model             string
	systemInstruction string
}

// NewGeminiProvider creates a provider for model that sends systemInstruction with every request.
func NewGeminiProvider(client GeminiClient, model, systemInstruction string) *GeminiProvider {
	if client == nil {
		panic("client is required")
	}
	return &GeminiProvider{
		client:            client,
		model:             model,
		systemInstruction: systemInstruction,
	}
}

// Model returns the model name requests are sent to.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Generate sends the full transcript with the tool declarations and returns
// the model's next turn.
func (p *GeminiProvider) Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	contents := toGeminiContents(messages)
	config := toGeminiConfig(p.systemInstruction, tools)

	logrus.WithFields(logrus.Fields{
		"model":    p.model,
		"contents": len(contents),
		"tools":    len(tools),
	}).Debug("generating content")

	resp, err := p.client.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, mapGeminiError(err)
	}

	return fromGeminiResponse(resp, p.model)
}
