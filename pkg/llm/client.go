package llm

import (
	"context"
	"errors"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrEmptyResponse = errors.New("no response from model")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema requests structured output. Definition is a JSON schema object.
type Schema struct {
	Name       string
	Definition map[string]any
}

type Prompt struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

type Completion struct {
	Content   string
	ModelUsed string
}

type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)
}

// NewPrompt builds the system + single user turn shape used by every batch job.
// The user text is wrapped in <incoming-text> tags so the system prompt can
// refer to it unambiguously.
func NewPrompt(system, text string) Prompt {
	return Prompt{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: WrapInput("incoming-text", text)}},
		MaxTokens: defaultMaxTokens,
	}
}

const defaultMaxTokens = 1024
