// Package classify decides whether news items describe a merger or acquisition
// and extracts the parties involved.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mergerscan/internal/dispatch"
	"mergerscan/internal/model"
	"mergerscan/pkg/llm"
)

type Outcome struct {
	NewsItemID    int64
	MergerRelated string
	Reasons       string
	Entities      []string
	ModelUsed     string
}

// Researchable reports whether the outcome names enough parties to research.
func (o Outcome) Researchable() bool {
	return o.MergerRelated == model.MergerRelatedTrue && len(o.Entities) > 1
}

type response struct {
	Reasons       string   `json:"Reasons"`
	MergerRelated string   `json:"Merger_Related"`
	Entities      []string `json:"Merger_Entities"`
}

type Classifier struct {
	llm   llm.Completer
	batch dispatch.Config
	opts  []dispatch.Option

	small          llm.Completer
	smallThreshold int
	smallRPM       int
}

type Option func(*Classifier)

// WithSmallBatch routes batches of at most threshold items to a separate
// provider, one request at a time, paced to stay under rpm.
func WithSmallBatch(small llm.Completer, threshold, rpm int) Option {
	return func(c *Classifier) {
		c.small = small
		c.smallThreshold = threshold
		c.smallRPM = rpm
	}
}

func WithDispatchOptions(opts ...dispatch.Option) Option {
	return func(c *Classifier) {
		c.opts = append(c.opts, opts...)
	}
}

func New(completer llm.Completer, batch dispatch.Config, opts ...Option) *Classifier {
	c := &Classifier{llm: completer, batch: batch}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// schedule picks the provider and dispatch schedule for a batch of n items.
func (c *Classifier) schedule(n int) (llm.Completer, dispatch.Config) {
	if c.small != nil && n <= c.smallThreshold && c.smallRPM > 0 {
		pause := time.Duration(float64(time.Minute) / float64(c.smallRPM) * 0.8)
		return c.small, dispatch.Config{
			ChunkSize:       1,
			Pause:           pause,
			ContinueOnError: c.batch.ContinueOnError,
		}
	}
	return c.llm, c.batch
}

// Classify returns one outcome per item in input order. Errors follow the
// dispatcher: a *dispatch.BatchError in fail-fast mode, or partial outcomes
// alongside a *dispatch.PartialError.
func (c *Classifier) Classify(ctx context.Context, items []model.NewsItem) ([]Outcome, error) {
	completer, cfg := c.schedule(len(items))

	d, err := dispatch.New(cfg, c.opts...)
	if err != nil {
		return nil, err
	}

	slog.Info("classifying news items", "count", len(items), "chunk_size", cfg.ChunkSize, "pause", cfg.Pause)

	return dispatch.Run(ctx, d, items, func(ctx context.Context, item model.NewsItem) (Outcome, error) {
		return classifyOne(ctx, completer, item)
	})
}

func classifyOne(ctx context.Context, completer llm.Completer, item model.NewsItem) (Outcome, error) {
	prompt := llm.NewPrompt(llm.ClassifierPrompt, item.Text)
	prompt.Schema = llm.ClassificationSchema

	resp, err := completer.Complete(ctx, prompt)
	if err != nil {
		return Outcome{}, err
	}

	var r response
	if err := llm.DecodeJSON(resp.Content, &r); err != nil {
		return Outcome{}, err
	}

	related, err := normalizeRelated(r.MergerRelated)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		NewsItemID:    item.ID,
		MergerRelated: related,
		Reasons:       strings.TrimSpace(r.Reasons),
		Entities:      cleanEntities(r.Entities),
		ModelUsed:     resp.ModelUsed,
	}, nil
}

func normalizeRelated(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case model.MergerRelatedTrue, model.MergerRelatedFalse, model.MergerRelatedUnknown:
		return v, nil
	default:
		return "", fmt.Errorf("unexpected Merger_Related value %q", s)
	}
}

func cleanEntities(entities []string) []string {
	seen := make(map[string]struct{}, len(entities))
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
