package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"mergerscan/internal/model"

	"github.com/gin-gonic/gin"
)

type NewsStore interface {
	GetFeed(limit, offset int) ([]model.MergerCase, error)
	GetFeedTotal() (int, error)
	GetCase(id int64) (*model.MergerCase, error)
	GetMergerCases(limit, offset int) ([]model.MergerCase, error)
	GetMergerCasesTotal() (int, error)
}

type ResearchStore interface {
	GetLatestByNewsItem(newsItemID int64) (*model.Research, error)
}

type NewsHandler struct {
	repository NewsStore
	research   ResearchStore
}

func NewNewsHandler(repository NewsStore, research ResearchStore) *NewsHandler {
	return &NewsHandler{repository: repository, research: research}
}

// GetFeed lists classified news, newest first.
func (h *NewsHandler) GetFeed(c *gin.Context) {
	h.list(c, h.repository.GetFeed, h.repository.GetFeedTotal)
}

// GetMergers lists only the items classified as merger related.
func (h *NewsHandler) GetMergers(c *gin.Context) {
	h.list(c, h.repository.GetMergerCases, h.repository.GetMergerCasesTotal)
}

func (h *NewsHandler) list(c *gin.Context, page func(limit, offset int) ([]model.MergerCase, error), count func() (int, error)) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	cases, err := page(limit, offset)
	if err != nil {
		slog.Error("error fetching news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := count()
	if err != nil {
		slog.Error("error fetching news total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	news := make([]NewsResponse, 0, len(cases))
	for _, m := range cases {
		news = append(news, toNewsResponse(m))
	}

	c.JSON(http.StatusOK, FeedResponse{
		News:   news,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	m, err := h.repository.GetCase(id)
	if err != nil {
		slog.Error("error fetching news item", "error", err, "news_item_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "News item not found"})
		return
	}

	c.JSON(http.StatusOK, toNewsResponse(*m))
}

func (h *NewsHandler) GetResearch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.research.GetLatestByNewsItem(id)
	if err != nil {
		slog.Error("error fetching research", "error", err, "news_item_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Research not found"})
		return
	}

	c.JSON(http.StatusOK, toResearchResponse(*res))
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetFeedTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Error("invalid news item id", "id", raw, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news item id"})
		return 0, false
	}
	return id, true
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
