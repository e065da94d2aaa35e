package repository

import (
	"database/sql"
	"mergerscan/internal/model"

	"github.com/lib/pq"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// SaveItem inserts a collected item. It reports false when an item with the
// same content hash was already stored by an earlier run.
func (r *NewsRepository) SaveItem(item *model.NewsItem) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO news_item(published_date, source, text, url, external_id, content_hash, status)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (content_hash) DO NOTHING
		RETURNING id
	`, item.PublishedDate, item.Source, item.Text, item.URL, item.ExternalID, item.ContentHash, model.StatusPending).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	item.ID = id
	item.Status = model.StatusPending
	return true, nil
}

// GetByIDs returns the items in ascending id order. Unknown ids are skipped.
func (r *NewsRepository) GetByIDs(ids []int64) ([]model.NewsItem, error) {
	rows, err := r.db.Query(`
		SELECT id, published_date, source, extracted_date, text, url, external_id, content_hash, status
		FROM news_item
		WHERE id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		err := rows.Scan(&n.ID, &n.PublishedDate, &n.Source, &n.ExtractedDate, &n.Text, &n.URL, &n.ExternalID, &n.ContentHash, &n.Status)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *NewsRepository) GetPendingIDs(limit int) ([]int64, error) {
	rows, err := r.db.Query(`
		SELECT id FROM news_item
		WHERE status = $1
		ORDER BY id ASC
		LIMIT $2
	`, model.StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *NewsRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`
		UPDATE news_item SET status = $1 WHERE id = $2
	`, status, id)
	return err
}

func (r *NewsRepository) SaveError(newsItemID int64, stage, errMsg, errType string) error {
	_, err := r.db.Exec(`
		INSERT INTO processing_error(news_item_id, stage, error_message, error_type)
		VALUES($1, $2, $3, $4)
	`, newsItemID, stage, errMsg, errType)

	return err
}

func (r *NewsRepository) GetErrorCount(newsItemID int64, stage string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM processing_error
		WHERE news_item_id = $1 AND stage = $2
	`, newsItemID, stage).Scan(&count)
	return count, err
}

// SaveClassification stores the outcome and marks the item classified in one
// transaction. Reclassifying an item replaces its previous outcome.
func (r *NewsRepository) SaveClassification(c *model.Classification) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO classification(news_item_id, merger_related, reasons, entities, model_used)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (news_item_id) DO UPDATE
		SET merger_related = EXCLUDED.merger_related,
			reasons = EXCLUDED.reasons,
			entities = EXCLUDED.entities,
			model_used = EXCLUDED.model_used,
			classified_at = NOW()
		RETURNING id
	`, c.NewsItemID, c.MergerRelated, c.Reasons, textArray(c.Entities), c.ModelUsed).Scan(&c.ID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE news_item SET status = $1 WHERE id = $2
	`, model.StatusClassified, c.NewsItemID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

const caseColumns = `
	n.id, n.published_date, n.source, n.extracted_date, n.text, n.url, n.external_id, n.content_hash, n.status,
	c.merger_related, c.reasons, c.entities, c.model_used, c.classified_at`

func scanCase(row interface{ Scan(...any) error }) (model.MergerCase, error) {
	var m model.MergerCase
	err := row.Scan(
		&m.ID, &m.PublishedDate, &m.Source, &m.ExtractedDate, &m.Text, &m.URL, &m.ExternalID, &m.ContentHash, &m.Status,
		&m.MergerRelated, &m.Reasons, pq.Array(&m.Entities), &m.ModelUsed, &m.ClassifiedAt,
	)
	return m, err
}

func (r *NewsRepository) queryCases(query string, args ...any) ([]model.MergerCase, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []model.MergerCase
	for rows.Next() {
		m, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cases, nil
}

// GetFeed lists classified news, newest first.
func (r *NewsRepository) GetFeed(limit int, offset int) ([]model.MergerCase, error) {
	return r.queryCases(`
		SELECT`+caseColumns+`
		FROM news_item n
		JOIN classification c ON c.news_item_id = n.id
		ORDER BY n.published_date DESC, n.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *NewsRepository) GetFeedTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM classification
	`).Scan(&total)
	return total, err
}

func (r *NewsRepository) GetCase(id int64) (*model.MergerCase, error) {
	m, err := scanCase(r.db.QueryRow(`
		SELECT`+caseColumns+`
		FROM news_item n
		JOIN classification c ON c.news_item_id = n.id
		WHERE n.id = $1
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &m, nil
}

// GetMergerCases lists items classified as merger related.
func (r *NewsRepository) GetMergerCases(limit int, offset int) ([]model.MergerCase, error) {
	return r.queryCases(`
		SELECT`+caseColumns+`
		FROM news_item n
		JOIN classification c ON c.news_item_id = n.id
		WHERE c.merger_related = $1
		ORDER BY n.published_date DESC, n.id DESC
		LIMIT $2 OFFSET $3
	`, model.MergerRelatedTrue, limit, offset)
}

func (r *NewsRepository) GetMergerCasesTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM classification WHERE merger_related = $1
	`, model.MergerRelatedTrue).Scan(&total)
	return total, err
}

func (r *NewsRepository) GetCasesByIDs(ids []int64) ([]model.MergerCase, error) {
	return r.queryCases(`
		SELECT`+caseColumns+`
		FROM news_item n
		JOIN classification c ON c.news_item_id = n.id
		WHERE n.id = ANY($1)
		ORDER BY n.id ASC
	`, pq.Array(ids))
}

// textArray binds a nil slice as an empty array; the array columns are NOT NULL.
func textArray(s []string) any {
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}
