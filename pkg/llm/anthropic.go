package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) *AnthropicClient {
	m := anthropic.ModelClaudeHaiku4_5
	if model != "" {
		m = anthropic.Model(model)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		model:  m,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	system := prompt.System
	if prompt.Schema != nil {
		// Messages API has no response_format; ask for the schema in the system prompt
		// and rely on CleanJSONResponse downstream.
		schema, err := json.Marshal(prompt.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("anthropic schema: %w", err)
		}
		system += "\n\nOutput JSON only, no other text, matching this JSON schema:\n" + string(schema)
	}

	messages := make([]anthropic.MessageParam, 0, len(prompt.Messages))
	for _, m := range prompt.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	maxTokens := int64(prompt.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(prompt.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	return &Completion{
		Content:   resp.Content[0].Text,
		ModelUsed: string(c.model),
	}, nil
}
