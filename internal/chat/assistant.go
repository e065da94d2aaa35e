// Package chat answers analyst questions about merger cases over a
// multi-turn session.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mergerscan/pkg/llm"
	"mergerscan/pkg/search"

	"github.com/google/uuid"
)

const (
	RefusalText       = "Sorry, potentially malicious prompt detected. This request cannot be processed."
	DefaultTokenLimit = 2048
	replyMaxTokens    = 1024
)

type Reply struct {
	SessionID string   `json:"session_id"`
	Text      string   `json:"reply"`
	Citations []string `json:"citations,omitempty"`
}

type Assistant struct {
	llm        llm.Completer
	guard      *llm.Guard
	store      SessionStore
	counter    *llm.TokenCounter
	searcher   search.Searcher
	tokenLimit int
}

type Option func(*Assistant)

// WithSearcher grounds every answer in a web search for the question.
func WithSearcher(s search.Searcher) Option {
	return func(a *Assistant) { a.searcher = s }
}

func WithTokenLimit(limit int) Option {
	return func(a *Assistant) {
		if limit > 0 {
			a.tokenLimit = limit
		}
	}
}

func WithTokenCounter(c *llm.TokenCounter) Option {
	return func(a *Assistant) { a.counter = c }
}

func NewAssistant(completer llm.Completer, guard *llm.Guard, store SessionStore, opts ...Option) *Assistant {
	a := &Assistant{
		llm:        completer,
		guard:      guard,
		store:      store,
		tokenLimit: DefaultTokenLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reply answers message within the given session, starting a new one when
// sessionID is empty or unknown. A message flagged by the guard is refused and
// not added to the history.
func (a *Assistant) Reply(ctx context.Context, sessionID, message string) (*Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if a.guard != nil {
		malicious, err := a.guard.CheckMaliciousIntent(ctx, message)
		if err != nil {
			return nil, fmt.Errorf("malicious intent check: %w", err)
		}
		if malicious {
			slog.Warn("chat message refused", "session_id", sessionID)
			return &Reply{SessionID: sessionID, Text: RefusalText}, nil
		}
	}

	session, err := a.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &Session{}
	}

	system := llm.ChatPrompt
	if session.Summary != "" {
		system += " Here is a summary of the earlier conversation: <summary> " + session.Summary + " </summary> "
	}

	var citations []string
	if a.searcher != nil {
		res, err := a.searcher.Search(ctx, message)
		if err != nil {
			slog.Error("chat web search failed, answering without it", "error", err, "session_id", sessionID)
		} else {
			system += " Use these web search results where relevant: <search-results> " + search.StripMarkdown(res.Content) + " </search-results> "
			citations = res.Citations
		}
	}

	session.Messages = append(session.Messages, llm.Message{
		Role:    llm.RoleUser,
		Content: llm.WrapInput("incoming-text", message),
	})

	resp, err := a.llm.Complete(ctx, llm.Prompt{
		System:    system,
		Messages:  session.Messages,
		MaxTokens: replyMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	session.Messages = append(session.Messages, llm.Message{Role: llm.RoleAssistant, Content: text})

	if err := a.compact(ctx, session); err != nil {
		slog.Error("error compacting chat history", "error", err, "session_id", sessionID)
	}

	if err := a.store.Save(ctx, sessionID, session); err != nil {
		return nil, err
	}

	return &Reply{SessionID: sessionID, Text: text, Citations: citations}, nil
}

// compact folds everything but the latest reply into the session summary once
// the history outgrows the token limit.
func (a *Assistant) compact(ctx context.Context, session *Session) error {
	if a.counter.CountMessages(session.Messages) <= a.tokenLimit {
		return nil
	}

	last := len(session.Messages) - 1
	summary, err := llm.Summarize(ctx, a.llm, session.Summary, session.Messages[:last])
	if err != nil {
		return err
	}

	session.Summary = summary
	session.Messages = session.Messages[last:]
	return nil
}
