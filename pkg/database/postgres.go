package database

import (
	"context"
	"go-agency-backend/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup; the gateway owns only this table
const schema = `
CREATE TABLE IF NOT EXISTS form_submission_log (
	id             BIGSERIAL PRIMARY KEY,
	instance_id    TEXT        NOT NULL,
	form_type      TEXT        NOT NULL,
	status         TEXT        NOT NULL,
	message        TEXT        NOT NULL DEFAULT '',
	field_names    TEXT[]      NOT NULL DEFAULT '{}',
	has_attachment BOOLEAN     NOT NULL DEFAULT FALSE,
	request_id     TEXT        NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_form_submission_log_type_created
	ON form_submission_log (form_type, created_at DESC);
`

func NewPostgresConnection(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	// Works behind PgBouncer in transaction mode
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	logger.L().Info("Database connection established")
	return pool, nil
}
