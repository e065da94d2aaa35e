package news

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	return newFinnHubClient(apiKey, &http.Client{Timeout: 30 * time.Second})
}

func newFinnHubClient(apiKey string, httpClient *http.Client) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = httpClient
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Fetch(ctx context.Context, from time.Time) ([]Item, error) {
	res, _, err := c.client.MarketNews(ctx).Category("merger").Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	var items []Item

	for _, news := range res {
		if news.Datetime == nil || news.Headline == nil {
			continue
		}

		published := truncateDay(time.Unix(*news.Datetime, 0).UTC())
		if published.Before(truncateDay(from)) {
			continue
		}

		item := Item{
			PublishedDate: published,
			Source:        c.Name(),
		}

		if news.Id != nil {
			item.ExternalID = strconv.FormatInt(*news.Id, 10)
		}

		summary := ""
		if news.Summary != nil {
			summary = *news.Summary
		}
		item.Text = joinText(*news.Headline, summary)

		if news.Url != nil {
			item.URL = *news.Url
		}

		items = append(items, item)
	}

	return items, nil
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}
