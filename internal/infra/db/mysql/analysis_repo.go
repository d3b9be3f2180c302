package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// AnalysisRepository persists analysis records.
//
// Table analysis_results: id CHAR(36) PK, user_id BIGINT (FK users.id
// ON DELETE CASCADE), original_text BLOB (ciphertext), language
// CHAR(2), sentiment VARCHAR(20), confidence_score DOUBLE, emotions
// TEXT, skills TEXT, distortions TEXT, created_at DATETIME(6).
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save commits one record in a single INSERT. Records are immutable
// after creation, so there is no upsert path.
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_results
  (id, user_id, original_text, language, sentiment, confidence_score, emotions, skills, distortions, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?);
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

// ListByUser returns a page of the caller's records, newest first.
// Text stays empty; the recorder decrypts Ciphertext on the way out.
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
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
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
