package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/openai/openai-go/option"
)

func TestPerplexitySearch(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
  "id": "p1", "object": "chat.completion", "created": 1760000000, "model": "sonar",
  "citations": ["https://genmab.example/sg", "https://merus.example"],
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "**Genmab** sells Darzalex [1]."}}]
}`)
	}))
	defer srv.Close()

	c := NewPerplexityClient("k", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	c.now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }

	res, err := c.Search(context.Background(), "The following parties (Genmab,| Merus) ...")

	assert.Equal(t, nil, err)
	assert.Equal(t, "**Genmab** sells Darzalex [1].", res.Content)
	assert.Equal(t, []string{"https://genmab.example/sg", "https://merus.example"}, res.Citations)
	assert.Equal(t, "sonar", res.Model)

	assert.Equal(t, "web", got["search_mode"])
	assert.Equal(t, true, got["enable_search_classifier"])
	assert.Equal(t, float64(10), got["max_search_results"])
	assert.Equal(t, "medium", got["web_search_options"].(map[string]any)["search_context_size"])
	assert.Equal(t, 0.1, got["temperature"])

	messages := got["messages"].([]any)
	system := messages[0].(map[string]any)["content"].(string)
	assert.MatchRegex(t, system, "Current date is 18 Oct 2026")
	user := messages[1].(map[string]any)["content"].(string)
	assert.MatchRegex(t, user, "^<incoming-query> ")
}

func TestPerplexitySearch_FallsBackToSearchResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
  "id": "p2", "object": "chat.completion", "created": 1, "model": "sonar",
  "search_results": [{"url": "https://only.example"}],
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "None"}}]
}`)
	}))
	defer srv.Close()

	c := NewPerplexityClient("k", "sonar-pro", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	res, err := c.Search(context.Background(), "q")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"https://only.example"}, res.Citations)
	assert.Equal(t, "sonar-pro", res.Model)
}
