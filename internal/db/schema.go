package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Schema is idempotent and safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS public.workout_log
(
    id             VARCHAR PRIMARY KEY,
    user_id        VARCHAR NOT NULL,
    exercise       VARCHAR NOT NULL DEFAULT '',
    category       VARCHAR NOT NULL DEFAULT '',
    date           VARCHAR NOT NULL DEFAULT '',
    sets           JSONB   NOT NULL DEFAULT '[]',
    legacy_id      VARCHAR NULL,
    schema_version INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS ix_workout_log_user_id ON public.workout_log (user_id);
CREATE INDEX IF NOT EXISTS ix_workout_log_user_category ON public.workout_log (user_id, category);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Debugln("db schema ensured")
	return nil
}
