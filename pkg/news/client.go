package news

import (
	"context"
	"time"
)

// Item is one news listing as collected from a source, before it is stored.
type Item struct {
	ExternalID    string
	PublishedDate time.Time
	Source        string
	Text          string
	URL           string
}

type Source interface {
	// Fetch returns items published on or after from.
	Fetch(ctx context.Context, from time.Time) ([]Item, error)
	Name() string
}

func joinText(title, summary string) string {
	if summary == "" {
		return title
	}
	return title + ". " + summary
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
