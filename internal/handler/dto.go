package handler

import (
	"time"

	"mergerscan/internal/model"
)

type NewsResponse struct {
	ID            int64    `json:"id"`
	PublishedDate string   `json:"published_date"`
	Source        string   `json:"source"`
	Text          string   `json:"text"`
	URL           string   `json:"url"`
	Status        string   `json:"status"`
	MergerRelated string   `json:"merger_related"`
	Reasons       string   `json:"reasons"`
	Entities      []string `json:"entities"`
	ModelUsed     string   `json:"model_used"`
	ClassifiedAt  string   `json:"classified_at,omitempty"`
}

type FeedResponse struct {
	News   []NewsResponse `json:"news"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type PartyResponse struct {
	MergerParty   string `json:"merger_party"`
	Explanation   string `json:"explanation"`
	GoodsServices string `json:"goods_services_sold_in_singapore"`
	BrandNames    string `json:"brand_names"`
}

type ResearchResponse struct {
	NewsItemID  int64           `json:"news_item_id"`
	Query       string          `json:"query"`
	Response    string          `json:"response"`
	Citations   []string        `json:"citations"`
	Parties     []PartyResponse `json:"parties"`
	ModelUsed   string          `json:"model_used"`
	SearchModel string          `json:"search_model"`
	CreatedAt   string          `json:"created_at"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Citations []string `json:"citations,omitempty"`
}

func toNewsResponse(m model.MergerCase) NewsResponse {
	res := NewsResponse{
		ID:            m.ID,
		PublishedDate: m.PublishedDate.Format(time.DateOnly),
		Source:        m.Source,
		Text:          m.Text,
		URL:           m.URL,
		Status:        m.Status,
		MergerRelated: m.MergerRelated,
		Reasons:       m.Reasons,
		Entities:      m.Entities,
		ModelUsed:     m.ModelUsed,
	}
	if !m.ClassifiedAt.IsZero() {
		res.ClassifiedAt = m.ClassifiedAt.Format(time.RFC3339)
	}
	return res
}

func toResearchResponse(r model.Research) ResearchResponse {
	parties := make([]PartyResponse, 0, len(r.Parties))
	for _, p := range r.Parties {
		parties = append(parties, PartyResponse{
			MergerParty:   p.MergerParty,
			Explanation:   p.Explanation,
			GoodsServices: p.GoodsServices,
			BrandNames:    p.BrandNames,
		})
	}

	return ResearchResponse{
		NewsItemID:  r.NewsItemID,
		Query:       r.Query,
		Response:    r.RawResponse,
		Citations:   r.Citations,
		Parties:     parties,
		ModelUsed:   r.ModelUsed,
		SearchModel: r.SearchModel,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
