package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/failures"
)

// FailureRepository persists the pipeline failure audit log, used to
// diagnose prompt drift.
//
// Table analysis_failures: id BIGINT AUTO_INCREMENT PK, user_id BIGINT,
// stage VARCHAR(32), detail TEXT, reply_len INT, created_at DATETIME(6).
type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO analysis_failures
  (user_id, stage, detail, reply_len, created_at)
VALUES (?,?,?,?,?);
`
	stage := f.Stage
	if strings.TrimSpace(stage) == "" {
		stage = "-"
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, f.UserID, stage, f.Detail, f.ReplyLen, created)
	return err
}

func (r *FailureRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, stage, detail, reply_len, created_at
FROM analysis_failures
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		if err := rows.Scan(&f.ID, &f.UserID, &f.Stage, &f.Detail, &f.ReplyLen, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
