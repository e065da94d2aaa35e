package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mergerscan/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeStore struct {
	feed        []model.MergerCase
	feedTotal   int
	mergers     []model.MergerCase
	mergerTotal int
	single      *model.MergerCase
	research    *model.Research
	gotLimit    int
	gotOffset   int
	err         error
}

func (f *fakeStore) GetFeed(limit int, offset int) ([]model.MergerCase, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.feed, f.err
}

func (f *fakeStore) GetFeedTotal() (int, error) {
	return f.feedTotal, f.err
}

func (f *fakeStore) GetCase(id int64) (*model.MergerCase, error) {
	return f.single, f.err
}

func (f *fakeStore) GetMergerCases(limit int, offset int) ([]model.MergerCase, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.mergers, f.err
}

func (f *fakeStore) GetMergerCasesTotal() (int, error) {
	return f.mergerTotal, f.err
}

func (f *fakeStore) GetLatestByNewsItem(newsItemID int64) (*model.Research, error) {
	return f.research, f.err
}

func newTestRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewNewsHandler(store, store)
	r.GET("/news", h.GetFeed)
	r.GET("/news/:id", h.GetNews)
	r.GET("/mergers", h.GetMergers)
	r.GET("/mergers/:id/research", h.GetResearch)
	r.GET("/health", h.GetHealth)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	r.ServeHTTP(w, req)
	return w
}

var published = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func TestGetFeed_ReturnNews(t *testing.T) {
	store := &fakeStore{
		feed: []model.MergerCase{{
			NewsItem:      model.NewsItem{ID: 1, PublishedDate: published, Source: "ACCC", Text: "A to acquire B"},
			MergerRelated: "true",
			Entities:      []string{"A", "B"},
		}},
		feedTotal: 1,
	}

	w := get(newTestRouter(store), "/news?limit=10&offset=0")

	assert.Equal(t, http.StatusOK, w.Code)

	var res FeedResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, len(res.News))
	assert.Equal(t, "2026-10-16", res.News[0].PublishedDate)
	assert.Equal(t, []string{"A", "B"}, res.News[0].Entities)
	assert.Equal(t, "", res.News[0].ClassifiedAt)
}

func TestGetFeed_DBError(t *testing.T) {
	store := &fakeStore{err: errors.New("DB down")}

	w := get(newTestRouter(store), "/news?limit=10&offset=0")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetFeed_QueryLimits(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 10, 0},
		{"explicit", "?limit=25&offset=50", 25, 50},
		{"limit clamped", "?limit=1000", 100, 0},
		{"zero limit", "?limit=0", 10, 0},
		{"negative offset", "?offset=-5", 10, 0},
		{"not a number", "?limit=ten&offset=x", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			w := get(newTestRouter(store), "/news"+tt.query)

			var res FeedResponse
			json.Unmarshal(w.Body.Bytes(), &res)
			assert.Equal(t, tt.wantLimit, res.Limit)
			assert.Equal(t, tt.wantOffset, res.Offset)
			assert.Equal(t, tt.wantLimit, store.gotLimit)
			assert.Equal(t, 0, len(res.News))
		})
	}
}

func TestGetMergers(t *testing.T) {
	store := &fakeStore{
		mergers:     []model.MergerCase{{NewsItem: model.NewsItem{ID: 7}, MergerRelated: "true"}},
		mergerTotal: 42,
	}

	w := get(newTestRouter(store), "/mergers?limit=5&offset=5")

	var res FeedResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42, res.Total)
	assert.Equal(t, int64(7), res.News[0].ID)
	assert.Equal(t, 5, store.gotOffset)
}

func TestGetNews_Found(t *testing.T) {
	store := &fakeStore{single: &model.MergerCase{
		NewsItem:      model.NewsItem{ID: 1, Text: "A to acquire B", Status: model.StatusResearched},
		MergerRelated: "true",
		ClassifiedAt:  published,
	}}

	w := get(newTestRouter(store), "/news/1")

	var res NewsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A to acquire B", res.Text)
	assert.Equal(t, "researched", res.Status)
	assert.Equal(t, "2026-10-16T00:00:00Z", res.ClassifiedAt)
}

func TestGetNews_NotFound(t *testing.T) {
	w := get(newTestRouter(&fakeStore{}), "/news/999")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNews_InvalidID(t *testing.T) {
	w := get(newTestRouter(&fakeStore{}), "/news/aaa")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetResearch_Found(t *testing.T) {
	store := &fakeStore{research: &model.Research{
		NewsItemID:  3,
		RawResponse: "Grab sells food delivery [1].",
		Citations:   []string{"https://grab.com/sg"},
		Parties: []model.PartyFinding{
			{MergerParty: "Grab", GoodsServices: "food delivery", BrandNames: "GrabFood"},
		},
		SearchModel: "sonar",
		CreatedAt:   published,
	}}

	w := get(newTestRouter(store), "/mergers/3/research")

	var res ResearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Grab", res.Parties[0].MergerParty)
	assert.Equal(t, "GrabFood", res.Parties[0].BrandNames)
	assert.Equal(t, []string{"https://grab.com/sg"}, res.Citations)
	assert.Equal(t, "sonar", res.SearchModel)
}

func TestGetResearch_NotFound(t *testing.T) {
	w := get(newTestRouter(&fakeStore{}), "/mergers/3/research")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetResearch_DBError(t *testing.T) {
	w := get(newTestRouter(&fakeStore{err: errors.New("DB down")}), "/mergers/3/research")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealth_Healthy(t *testing.T) {
	w := get(newTestRouter(&fakeStore{}), "/health")

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	w := get(newTestRouter(&fakeStore{err: errors.New("DB down")}), "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unhealthy", res["status"])
}
