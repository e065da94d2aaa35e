package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"mergerscan/pkg/llm"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient searches with Gemini grounded on Google Search and inserts
// numbered citation markers into the answer.
type GeminiClient struct {
	client *genai.Client
	model  string
	now    func() time.Time
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiClient(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiClient, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model, now: time.Now}, nil
}

func (c *GeminiClient) Search(ctx context.Context, query string) (*Result, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.SearchPrompt(c.now()), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(llm.WrapInput("incoming-query", query)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}

	content, citations := addCitations(resp.Text(), resp.Candidates[0].GroundingMetadata)
	return &Result{
		Content:   content,
		Citations: citations,
		Model:     c.model,
	}, nil
}

// addCitations inserts "[n]," style markers after each grounded segment and
// returns the source URIs in chunk order. Supports are applied from the end of
// the text backwards so earlier byte offsets stay valid.
func addCitations(text string, meta *genai.GroundingMetadata) (string, []string) {
	if meta == nil {
		return text, nil
	}

	citations := make([]string, 0, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		uri := ""
		if chunk != nil && chunk.Web != nil {
			uri = chunk.Web.URI
		}
		citations = append(citations, uri)
	}

	supports := make([]*genai.GroundingSupport, 0, len(meta.GroundingSupports))
	for _, s := range meta.GroundingSupports {
		if s != nil && s.Segment != nil && len(s.GroundingChunkIndices) > 0 {
			supports = append(supports, s)
		}
	}
	sort.SliceStable(supports, func(i, j int) bool {
		return supports[i].Segment.EndIndex > supports[j].Segment.EndIndex
	})

	for _, s := range supports {
		var links []string
		for _, i := range s.GroundingChunkIndices {
			if i >= 0 && int(i) < len(meta.GroundingChunks) {
				links = append(links, "["+strconv.Itoa(int(i)+1)+"]")
			}
		}
		if len(links) == 0 {
			continue
		}

		end := int(s.Segment.EndIndex)
		if end < 0 {
			continue
		}
		if end > len(text) {
			end = len(text)
		}
		text = text[:end] + strings.Join(links, ",") + " " + text[end:]
	}

	return text, citations
}
