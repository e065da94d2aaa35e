package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
	"google.golang.org/genai"
)

func TestGeminiSearch(t *testing.T) {
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "Alpha sells tea."}]},
    "groundingMetadata": {
      "groundingChunks": [{"web": {"uri": "https://a.example", "title": "a"}}],
      "groundingSupports": [{"segment": {"endIndex": 16}, "groundingChunkIndices": [0]}]
    }
  }]
}`)
	}))
	defer srv.Close()

	c, err := newGeminiClient(context.Background(), &genai.ClientConfig{
		APIKey:      "k",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "")
	assert.Equal(t, nil, err)

	res, err := c.Search(context.Background(), "who sells tea")

	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.HasSuffix(path, "models/"+defaultGeminiModel+":generateContent"))
	assert.Equal(t, "Alpha sells tea.[1] ", res.Content)
	assert.Equal(t, []string{"https://a.example"}, res.Citations)
	assert.Equal(t, defaultGeminiModel, res.Model)
}
