package repository

import (
	"database/sql"
	"encoding/json"
	"mergerscan/internal/model"

	"github.com/lib/pq"
)

type ResearchRepository struct {
	db *sql.DB
}

func NewResearchRepository(db *sql.DB) *ResearchRepository {
	return &ResearchRepository{db: db}
}

// SaveResearch stores the findings and marks the news item researched.
func (r *ResearchRepository) SaveResearch(res *model.Research) error {
	findings := res.Parties
	if findings == nil {
		findings = []model.PartyFinding{}
	}
	parties, err := json.Marshal(findings)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO research(news_item_id, query, raw_response, citations, parties, model_used, search_model)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, res.NewsItemID, res.Query, res.RawResponse, textArray(res.Citations), parties, res.ModelUsed, res.SearchModel).Scan(&res.ID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE news_item SET status = $1 WHERE id = $2
	`, model.StatusResearched, res.NewsItemID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetLatestByNewsItem returns the most recent research for an item, or nil.
func (r *ResearchRepository) GetLatestByNewsItem(newsItemID int64) (*model.Research, error) {
	var res model.Research
	var parties []byte
	err := r.db.QueryRow(`
		SELECT id, news_item_id, query, raw_response, citations, parties, model_used, search_model, created_at
		FROM research
		WHERE news_item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, newsItemID).Scan(&res.ID, &res.NewsItemID, &res.Query, &res.RawResponse, pq.Array(&res.Citations),
		&parties, &res.ModelUsed, &res.SearchModel, &res.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(parties, &res.Parties); err != nil {
		return nil, err
	}

	return &res, nil
}
