package generate

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Ibragim1996/stream-overlay/internal/metrics"
)

const providerTimeout = 10 * time.Second

// OpenAIProvider generates lines via the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for the given API key and
// model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}
}

// OneLine runs a single bounded generation attempt. Timeouts behave
// like any other provider error.
func (p *OpenAIProvider) OneLine(ctx context.Context, args PromptArgs) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.9,
		TopP:        0.95,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(args)},
		},
	})
	metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
