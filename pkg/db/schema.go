package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the engagement tables. The service syncs the schema at startup
// rather than running versioned migrations; every statement is idempotent.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id           BIGSERIAL PRIMARY KEY,
	week_number  INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_week_number
	ON sessions (week_number, created_at DESC);

CREATE TABLE IF NOT EXISTS participant_tallies (
	id                BIGSERIAL PRIMARY KEY,
	session_id        BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	name              TEXT NOT NULL,
	chat_count        INTEGER NOT NULL CHECK (chat_count >= 0),
	transcript_lines  INTEGER NOT NULL CHECK (transcript_lines >= 0),
	UNIQUE (session_id, name)
);
`

// SyncSchema creates the engagement tables if they do not exist yet.
func SyncSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("syncing schema: %w", err)
	}

	return nil
}
