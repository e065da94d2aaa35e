package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"mergerscan/pkg/llm"
)

const (
	perplexityBaseURL      = "https://api.perplexity.ai"
	defaultPerplexityModel = "sonar"
)

// PerplexityClient runs web searches through Perplexity's OpenAI compatible
// chat endpoint.
type PerplexityClient struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewPerplexityClient(apiKey, model string, opts ...option.RequestOption) *PerplexityClient {
	if model == "" {
		model = defaultPerplexityModel
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(perplexityBaseURL),
	}, opts...)
	client := openai.NewClient(opts...)
	return &PerplexityClient{
		client: &client,
		model:  model,
		now:    time.Now,
	}
}

type perplexityExtras struct {
	Citations     []string `json:"citations"`
	SearchResults []struct {
		URL string `json:"url"`
	} `json:"search_results"`
}

func (c *PerplexityClient) Search(ctx context.Context, query string) (*Result, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.SearchPrompt(c.now())),
			openai.UserMessage(llm.WrapInput("incoming-query", query)),
		},
		Temperature:      openai.Float(0.1),
		FrequencyPenalty: openai.Float(0.1),
		MaxTokens:        openai.Int(1024),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params,
		option.WithJSONSet("search_mode", "web"),
		option.WithJSONSet("return_related_questions", false),
		option.WithJSONSet("enable_search_classifier", true),
		option.WithJSONSet("web_search_options", map[string]any{"search_context_size": "medium"}),
		option.WithJSONSet("max_search_results", 10),
	)
	if err != nil {
		return nil, fmt.Errorf("perplexity API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("perplexity: %w", llm.ErrEmptyResponse)
	}

	// Citations are a Perplexity extension and only present in the raw body.
	var extras perplexityExtras
	if raw := resp.RawJSON(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &extras); err != nil {
			return nil, fmt.Errorf("perplexity citations: %w", err)
		}
	}
	citations := extras.Citations
	if len(citations) == 0 {
		for _, r := range extras.SearchResults {
			citations = append(citations, r.URL)
		}
	}

	return &Result{
		Content:   resp.Choices[0].Message.Content,
		Citations: citations,
		Model:     c.model,
	}, nil
}
