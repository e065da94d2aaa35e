package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"mergerscan/db"
	"mergerscan/internal/model"
	"mergerscan/pkg/news"
)

type Collector struct {
	sources []news.Source
	store   NewsStore
	queue   Queue
}

func NewCollector(store NewsStore, queue Queue, sources ...news.Source) *Collector {
	return &Collector{sources: sources, store: store, queue: queue}
}

// Run fetches every source from the given date, stores items not seen before
// and queues them for classification. It returns the number of new items.
// A failing source is logged and skipped unless every source fails.
func (c *Collector) Run(ctx context.Context, from time.Time) (int, error) {
	var all []news.Item
	var errs []error

	for _, src := range c.sources {
		items, err := src.Fetch(ctx, from)
		if err != nil {
			slog.Error("error fetching news", "source", src.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		slog.Info("fetched news", "source", src.Name(), "count", len(items))
		all = append(all, items...)
	}

	if len(c.sources) > 0 && len(errs) == len(c.sources) {
		return 0, errors.Join(errs...)
	}

	unique := news.Dedupe(all)

	var ids []string
	for _, item := range unique {
		n := model.NewsItem{
			PublishedDate: item.PublishedDate,
			Source:        item.Source,
			Text:          item.Text,
			URL:           item.URL,
			ExternalID:    item.ExternalID,
			ContentHash:   news.ContentHash(item),
		}

		inserted, err := c.store.SaveItem(&n)
		if err != nil {
			slog.Error("error saving news item", "error", err, "source", item.Source)
			continue
		}

		if inserted {
			ids = append(ids, strconv.FormatInt(n.ID, 10))
		}
	}

	if err := c.queue.Push(ctx, db.ClassifyQueueKey, ids...); err != nil {
		return 0, fmt.Errorf("queue new items: %w", err)
	}

	slog.Info("collection finished", "fetched", len(all), "unique", len(unique), "new", len(ids))
	return len(ids), nil
}
