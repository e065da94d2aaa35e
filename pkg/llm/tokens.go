package llm

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter counts tokens with the model's BPE encoding. When the encoding
// cannot be loaded (tiktoken fetches it on first use) it estimates at roughly
// four characters per token.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter(model string) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		slog.Warn("token encoding unavailable, estimating counts", "model", model, "error", err)
		return &TokenCounter{}
	}
	return &TokenCounter{enc: enc}
}

func (c *TokenCounter) Count(text string) int {
	if c == nil || c.enc == nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

func (c *TokenCounter) CountMessages(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += c.Count(m.Content)
	}
	return total
}
