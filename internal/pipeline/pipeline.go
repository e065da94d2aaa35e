// Package pipeline wires collection, classification and research into
// queue-driven jobs. Item ids flow between stages through Redis lists; each
// job drains a batch, runs it through the dispatcher and requeues what failed.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"mergerscan/internal/dispatch"
	"mergerscan/internal/model"
)

const maxRetries = 3

type Queue interface {
	Push(ctx context.Context, queueKey string, data ...string) error
	Drain(ctx context.Context, queueKey string, max int) ([]string, error)
}

type NewsStore interface {
	SaveItem(item *model.NewsItem) (bool, error)
	GetByIDs(ids []int64) ([]model.NewsItem, error)
	GetCasesByIDs(ids []int64) ([]model.MergerCase, error)
	UpdateStatus(id int64, status string) error
	SaveError(newsItemID int64, stage, errMsg, errType string) error
	GetErrorCount(newsItemID int64, stage string) (int, error)
	SaveClassification(c *model.Classification) error
}

// stage holds what the classify and research jobs have in common: the queue
// they drain and how they retry.
type stage struct {
	name      string
	queueKey  string
	store     NewsStore
	queue     Queue
	batchSize int
}

// next drains up to batchSize ids. Ids that already failed maxRetries times are
// marked failed and dropped.
func (s *stage) next(ctx context.Context) ([]int64, error) {
	raw, err := s.queue.Drain(ctx, s.queueKey, s.batchSize)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			slog.Error("invalid news item id in queue", "id", r, "queue", s.queueKey, "error", err)
			continue
		}

		errorCount, err := s.store.GetErrorCount(id, s.name)
		if err != nil {
			slog.Error("error getting error count", "error", err, "news_item_id", id)
			s.requeue(ctx, id)
			continue
		}

		if errorCount >= maxRetries {
			slog.Warn("news item exceeded max retries, marking as failed", "news_item_id", id, "stage", s.name, "error_count", errorCount)
			if err := s.store.UpdateStatus(id, model.StatusFailed); err != nil {
				slog.Error("error marking news item failed", "error", err, "news_item_id", id)
			}
			continue
		}

		ids = append(ids, id)
	}
	return ids, nil
}

// settle records and requeues failures from a dispatcher run over ids. It
// returns the positions that failed, and a non-nil error when nothing from the
// run should be saved.
func (s *stage) settle(ctx context.Context, ids []int64, err error) (map[int]bool, error) {
	if err == nil {
		return nil, nil
	}

	var partial *dispatch.PartialError
	if errors.As(err, &partial) {
		failed := make(map[int]bool, len(partial.Failures))
		for _, f := range partial.Failures {
			failed[f.Index] = true
			s.recordError(ids[f.Index], f.Err)
			s.requeue(ctx, ids[f.Index])
		}
		return failed, nil
	}

	var batchErr *dispatch.BatchError
	if errors.As(err, &batchErr) {
		s.recordError(ids[batchErr.Task.Index], batchErr.Task.Err)
	}
	s.requeue(ctx, ids...)
	return nil, err
}

func (s *stage) recordError(id int64, err error) {
	slog.Error("error processing news item", "error", err, "news_item_id", id, "stage", s.name)
	if saveErr := s.store.SaveError(id, s.name, err.Error(), s.name+"_error"); saveErr != nil {
		slog.Error("error saving processing error", "error", saveErr, "news_item_id", id)
	}
}

func (s *stage) requeue(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	data := make([]string, len(ids))
	for i, id := range ids {
		data[i] = strconv.FormatInt(id, 10)
	}
	// Requeue with a fresh context so a cancelled run still returns its work.
	if err := s.queue.Push(context.WithoutCancel(ctx), s.queueKey, data...); err != nil {
		slog.Error("error requeueing news items", "error", err, "queue", s.queueKey, "count", len(ids))
	}
}
