package config

import (
	"context"
	"fmt"
	"strings"

	"mergerscan/internal/dispatch"
	"mergerscan/pkg/llm"
	"mergerscan/pkg/news"
	"mergerscan/pkg/search"
)

// Completer builds the chat completion client selected by LLM_PROVIDER.
func (c Config) Completer() (llm.Completer, error) {
	switch strings.ToLower(c.LLMProvider) {
	case "openai":
		if c.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider openai")
		}
		return llm.NewOpenAIClient(c.OpenAIKey, c.OpenAIModel), nil
	case "groq":
		if c.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required for provider groq")
		}
		return llm.NewGroqClient(c.GroqKey, c.GroqModel), nil
	case "anthropic":
		if c.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for provider anthropic")
		}
		return llm.NewAnthropicClient(c.AnthropicKey, c.AnthropicModel), nil
	case "ollama":
		return llm.NewOllamaClient(c.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
}

// SmallBatchCompleter returns the Groq client used for small classification
// batches and the prompt guard, or nil when no Groq key is configured.
func (c Config) SmallBatchCompleter() llm.Completer {
	if c.GroqKey == "" {
		return nil
	}
	return llm.NewGroqClient(c.GroqKey, c.GroqModel)
}

// Searcher builds the web search client selected by SEARCH_PROVIDER.
func (c Config) Searcher(ctx context.Context) (search.Searcher, error) {
	switch strings.ToLower(c.SearchProvider) {
	case "perplexity":
		if c.PerplexityKey == "" {
			return nil, fmt.Errorf("PERPLEXITY_API_KEY is required for search provider perplexity")
		}
		return search.NewPerplexityClient(c.PerplexityKey, c.PerplexityModel), nil
	case "gemini":
		if c.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for search provider gemini")
		}
		g, err := search.NewGeminiClient(ctx, c.GeminiKey, c.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown SEARCH_PROVIDER %q", c.SearchProvider)
	}
}

// Sources lists the news sources to collect from. The ACCC register needs no
// key; the APIs are included only when their key is set.
func (c Config) Sources() []news.Source {
	sources := []news.Source{news.NewACCCClient()}
	if c.FinnHubKey != "" {
		sources = append(sources, news.NewFinnHubClient(c.FinnHubKey))
	}
	if c.AlphaVantageKey != "" {
		sources = append(sources, news.NewAlphaVantageClient(c.AlphaVantageKey))
	}
	return sources
}

func (c Config) ClassifyBatch() dispatch.Config {
	return dispatch.Config{ChunkSize: c.ClassifyChunkSize, Pause: c.ClassifyPause, ContinueOnError: c.PartialResults}
}

func (c Config) SearchBatch() dispatch.Config {
	return dispatch.Config{ChunkSize: c.SearchChunkSize, Pause: c.SearchPause, ContinueOnError: c.PartialResults}
}

func (c Config) StructureBatch() dispatch.Config {
	return dispatch.Config{ChunkSize: c.StructureChunkSize, Pause: c.StructurePause, ContinueOnError: c.PartialResults}
}
