package repository

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"mergerscan/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/assert/v2"
)

func TestSaveResearch(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewResearchRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO research").
		WithArgs(int64(7), "q", "raw", sqlmock.AnyArg(), []byte(`[{"merger_party":"A","explanation":"e","goods_services_sold_in_Singapore":"None","brand_names":"None"}]`), "gpt", "sonar").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE news_item SET status").
		WithArgs(model.StatusResearched, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := &model.Research{
		NewsItemID:  7,
		Query:       "q",
		RawResponse: "raw",
		Citations:   []string{"https://a.example"},
		Parties:     []model.PartyFinding{{MergerParty: "A", Explanation: "e", GoodsServices: "None", BrandNames: "None"}},
		ModelUsed:   "gpt",
		SearchModel: "sonar",
	}
	err := repo.SaveResearch(res)

	assert.Equal(t, nil, err)
	assert.Equal(t, int64(3), res.ID)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}

// emptyArray matches a Postgres array bound with no elements.
type emptyArray struct{}

func (emptyArray) Match(v driver.Value) bool {
	return v == "{}"
}

func TestSaveResearch_NoCitations(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewResearchRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO research").
		WithArgs(int64(7), "q", "raw", emptyArray{}, []byte(`[]`), "gemini-2.5-flash", "gemini-2.5-flash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE news_item SET status").
		WithArgs(model.StatusResearched, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := &model.Research{
		NewsItemID:  7,
		Query:       "q",
		RawResponse: "raw",
		ModelUsed:   "gemini-2.5-flash",
		SearchModel: "gemini-2.5-flash",
	}
	err := repo.SaveResearch(res)

	assert.Equal(t, nil, err)
	assert.Equal(t, int64(4), res.ID)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}

func TestGetLatestByNewsItem(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewResearchRepository(conn)

	now := time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM research").WithArgs(int64(7)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "news_item_id", "query", "raw_response", "citations", "parties", "model_used", "search_model", "created_at"}).
			AddRow(3, 7, "q", "raw", []byte(`{https://a.example}`), []byte(`[{"merger_party":"A","brand_names":"Kopi"}]`), "gpt", "sonar", now),
	)

	res, err := repo.GetLatestByNewsItem(7)

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"https://a.example"}, res.Citations)
	assert.Equal(t, "Kopi", res.Parties[0].BrandNames)
	assert.Equal(t, now, res.CreatedAt)
}

func TestGetLatestByNewsItem_None(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewResearchRepository(conn)

	mock.ExpectQuery("FROM research").WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)

	res, err := repo.GetLatestByNewsItem(8)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, res == nil)
}
