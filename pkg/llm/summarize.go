package llm

import (
	"context"
	"fmt"
	"strings"
)

const summarizeSystemPrompt = `You are a helpful assistant. Summarise the conversation enclosed in <incoming-text> tags.
The summary should cover all the key points and main ideas presented, including the merger parties, goods and services discussed.
Keep the summary to a MAXIMUM of 400 tokens.`

const summaryMaxTokens = 400

// Summarize condenses a conversation into a single paragraph. A previous
// summary, if any, is folded into the new one.
func Summarize(ctx context.Context, llm Completer, previous string, history []Message) (string, error) {
	var b strings.Builder
	if previous != "" {
		fmt.Fprintf(&b, "Summary of conversation to date: %s\n", previous)
	}
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}

	prompt := NewPrompt(summarizeSystemPrompt, b.String())
	prompt.MaxTokens = summaryMaxTokens

	resp, err := llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize history: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
