package news

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
	limit      int
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limit:      200,
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Fetch(ctx context.Context, from time.Time) ([]Item, error) {
	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("topics", "mergers_and_acquisitions")
	q.Set("time_from", from.UTC().Format("20060102T1504"))
	q.Set("sort", "LATEST")
	q.Set("limit", fmt.Sprint(c.limit))
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, alphaVantageURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage fetch: status %d", resp.StatusCode)
	}

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// Rate limits and bad keys come back as 200 with a message and no feed.
	if raw.Feed == nil && raw.Information != "" {
		return nil, fmt.Errorf("alphavantage: %s", raw.Information)
	}

	items := make([]Item, 0, len(raw.Feed))
	for _, entry := range raw.Feed {
		published, err := time.Parse("20060102T150405", entry.TimePublished)
		if err != nil {
			continue
		}
		published = truncateDay(published)
		if published.Before(truncateDay(from)) {
			continue
		}

		items = append(items, Item{
			ExternalID:    generateExternalID(entry.URL),
			PublishedDate: published,
			Source:        c.Name(),
			Text:          joinText(entry.Title, entry.Summary),
			URL:           entry.URL,
		})
	}

	return items, nil
}

func generateExternalID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:16]
}

type avResponse struct {
	Feed        []avFeedItem `json:"feed"`
	Information string       `json:"Information"`
}

type avFeedItem struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
}
