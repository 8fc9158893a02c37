package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicGenerator runs prompts through the Anthropic messages API.
// The API has no JSON schema mode, so the schema is appended to the
// system prompt and the reply is validated by the caller.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

func NewAnthropicGenerator(apiKey, baseURL, model string) *AnthropicGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (g *AnthropicGenerator) Name() string {
	return "anthropic"
}

func (g *AnthropicGenerator) ModelName() string {
	return g.model
}

func (g *AnthropicGenerator) Complete(ctx context.Context, prompt Prompt) (string, error) {
	system := prompt.System
	if prompt.Schema != nil {
		encoded, err := json.Marshal(prompt.Schema)
		if err != nil {
			return "", fmt.Errorf("encode response schema: %w", err)
		}
		system += "\n\nThe JSON object must validate against this JSON schema:\n" + string(encoded)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
			retryAfter := ""
			if apiErr.Response != nil {
				retryAfter = apiErr.Response.Header.Get("Retry-After")
			}
			return "", newRateLimitError(g.Name(), apiErr.Error(), retryAfter)
		}
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			b.WriteString(v.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("anthropic response was empty")
	}
	return text, nil
}
