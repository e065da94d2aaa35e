package llm

import (
	"context"
	"sync"
)

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []Prompt
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &Completion{Content: f.reply, ModelUsed: "fake"}, nil
}
