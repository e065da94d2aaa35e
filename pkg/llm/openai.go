package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	ollamaBaseURL = "http://localhost:11434/v1"
)

// OpenAIClient talks to any OpenAI compatible chat completion endpoint.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	provider string
}

func NewOpenAIClient(apiKey, model string, opts ...option.RequestOption) *OpenAIClient {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:   &client,
		model:    model,
		provider: "openai",
	}
}

func NewGroqClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	c := NewOpenAIClient(apiKey, model, option.WithBaseURL(groqBaseURL))
	c.provider = "groq"
	return c
}

// NewOllamaClient points at a local Ollama server. The API key is required by
// the SDK but ignored by Ollama.
func NewOllamaClient(model string) *OpenAIClient {
	c := NewOpenAIClient("ollama", model, option.WithBaseURL(ollamaBaseURL))
	c.provider = "ollama"
	return c
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.Messages)+1)
	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	for _, m := range prompt.Messages {
		if m.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(m.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(m.Content))
	}

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		Temperature: openai.Float(prompt.Temperature),
	}

	if prompt.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(prompt.MaxTokens))
	}

	if prompt.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   prompt.Schema.Name,
					Schema: prompt.Schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", c.provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", c.provider, ErrEmptyResponse)
	}

	return &Completion{
		Content:   resp.Choices[0].Message.Content,
		ModelUsed: c.model,
	}, nil
}
