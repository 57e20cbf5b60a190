package postgres

import (
	"context"
	"go-agency-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Querier is the part of pgxpool.Pool the repository uses
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type submissionLogRepo struct {
	db Querier
}

// NewSubmissionLogRepository creates a new submission log repository
func NewSubmissionLogRepository(db Querier) domain.SubmissionLogRepository {
	return &submissionLogRepo{db: db}
}

// Create inserts one settled submission
func (r *submissionLogRepo) Create(ctx context.Context, rec *domain.SubmissionRecord) error {
	query := `
		INSERT INTO form_submission_log (instance_id, form_type, status, message, field_names, has_attachment, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	fieldNames := rec.FieldNames
	if fieldNames == nil {
		fieldNames = []string{}
	}

	return r.db.QueryRow(ctx, query,
		rec.InstanceID,
		string(rec.FormType),
		string(rec.Status),
		rec.Message,
		pq.Array(fieldNames),
		rec.HasAttachment,
		rec.RequestID,
		rec.CreatedAt,
	).Scan(&rec.ID)
}
