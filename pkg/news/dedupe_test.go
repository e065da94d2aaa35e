package news

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestDedupe(t *testing.T) {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{PublishedDate: day, Source: "ACCC", Text: "A buys B", URL: "first"},
		{PublishedDate: day, Source: "ACCC", Text: "C fined"},
		{PublishedDate: day, Source: "ACCC", Text: "A buys B", URL: "second"},
		{PublishedDate: day, Source: "FinnHub", Text: "A buys B"},
		{PublishedDate: day.AddDate(0, 0, 1), Source: "ACCC", Text: "A buys B"},
	}

	got := Dedupe(items)

	assert.Equal(t, 4, len(got))
	assert.Equal(t, "first", got[0].URL)
	assert.Equal(t, "C fined", got[1].Text)
	assert.Equal(t, "FinnHub", got[2].Source)
}

func TestContentHash_IgnoresURLAndID(t *testing.T) {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	a := Item{PublishedDate: day, Source: "ACCC", Text: "A buys B", URL: "x", ExternalID: "1"}
	b := Item{PublishedDate: day, Source: "ACCC", Text: "A buys B", URL: "y", ExternalID: "2"}

	assert.Equal(t, ContentHash(a), ContentHash(b))
	assert.Equal(t, 64, len(ContentHash(a)))
}

func TestCollectionDate(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		date     string
		lookback int
		want     time.Time
		wantErr  bool
	}{
		{"explicit date wins", "01 Oct 2026", 5, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), false},
		{"lookback days", "", 5, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), false},
		{"default lookback", "", 0, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), false},
		{"bad format", "2026-10-01", 0, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CollectionDate(tt.date, tt.lookback, now)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}
