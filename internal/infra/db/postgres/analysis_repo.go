package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// AnalysisRepository persists analysis records.
//
// Table analysis_results: id UUID PK, user_id BIGINT (FK users.id ON
// DELETE CASCADE), original_text BYTEA (ciphertext), language CHAR(2),
// sentiment VARCHAR(20), confidence_score DOUBLE PRECISION, emotions
// TEXT, skills TEXT, distortions TEXT, created_at TIMESTAMPTZ.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_results
  (id, user_id, original_text, language, sentiment, confidence_score, emotions, skills, distortions, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);
`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID,
		rec.UserID,
		rec.Ciphertext,
		rec.Language,
		rec.Sentiment,
		rec.Confidence,
		marshalList(rec.Emotions),
		marshalList(rec.Skills),
		marshalList(rec.Distortions),
		createdAt,
	)
	return err
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, user_id, original_text, language, sentiment, confidence_score, emotions, skills, distortions, created_at
FROM analysis_results
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var emotions, skills, distortions string
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Ciphertext, &rec.Language, &rec.Sentiment,
			&rec.Confidence, &emotions, &skills, &distortions, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Emotions = scanList(emotions)
		rec.Skills = scanList(skills)
		rec.Distortions = scanList(distortions)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func marshalList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func scanList(raw string) []string {
	var items []string
	if json.Unmarshal([]byte(raw), &items) != nil || items == nil {
		return []string{}
	}
	return items
}
