package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestFinnHubFetch(t *testing.T) {
	var category, token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category = r.URL.Query().Get("category")
		token = r.Header.Get("X-Finnhub-Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
  {"id": 7, "category": "merger", "datetime": 1792238400, "headline": "HSBC sells Canada unit to RBC", "summary": "Deal closes next year.", "url": "https://example.com/hsbc", "source": "Reuters", "related": "HSBC"},
  {"id": 8, "category": "merger", "datetime": 1759000000, "headline": "Stale", "summary": "", "url": "https://example.com/stale"}
]`))
	}))
	defer srv.Close()

	client := newFinnHubClient("secret", &http.Client{
		Transport: &rewriteTransport{base: srv.URL, inner: http.DefaultTransport},
	})

	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	items, err := client.Fetch(context.Background(), from)

	assert.Equal(t, nil, err)
	assert.Equal(t, "merger", category)
	assert.Equal(t, "secret", token)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "7", items[0].ExternalID)
	assert.Equal(t, "HSBC sells Canada unit to RBC. Deal closes next year.", items[0].Text)
	assert.Equal(t, "FinnHub", items[0].Source)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), items[0].PublishedDate)
}
