package postgres

import (
	"context"
	"fmt"
)

// schema is idempotent; it is not a migration tool.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               BIGSERIAL PRIMARY KEY,
		nickname         TEXT        NOT NULL DEFAULT '',
		auth_provider    TEXT        NOT NULL DEFAULT 'kakao',
		auth_provider_id TEXT        NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (auth_provider, auth_provider_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id         BIGSERIAL PRIMARY KEY,
		place_id   TEXT        NOT NULL UNIQUE,
		place_name TEXT        NOT NULL,
		user_ids   BIGINT[]    NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
	)`,
	`CREATE INDEX IF NOT EXISTS bookmarks_user_ids_idx ON bookmarks USING GIN (user_ids)`,
	`CREATE TABLE IF NOT EXISTS accessibility_reports (
		place_id              TEXT PRIMARY KEY,
		place_name            TEXT        NOT NULL DEFAULT '',
		summary               TEXT        NOT NULL,
		accessibility_score   INTEGER     NOT NULL CHECK (accessibility_score BETWEEN 0 AND 100),
		recommendations       TEXT[]      NOT NULL DEFAULT '{}',
		highlighted_obstacles TEXT[]      NOT NULL DEFAULT '{}',
		has_stairs            BOOLEAN     NOT NULL DEFAULT false,
		stairs_count          INTEGER     NOT NULL DEFAULT 0,
		has_ramp              BOOLEAN     NOT NULL DEFAULT false,
		entrance_accessible   BOOLEAN     NOT NULL DEFAULT false,
		facilities            JSONB       NOT NULL DEFAULT '{}',
		created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id                 BIGSERIAL PRIMARY KEY,
		satisfaction_level TEXT        NOT NULL CHECK (satisfaction_level IN ('satisfied', 'dissatisfied')),
		feedback_details   TEXT[]      NOT NULL DEFAULT '{}',
		user_agent         TEXT        NOT NULL DEFAULT '',
		device_id          TEXT        NOT NULL DEFAULT '',
		user_id            TEXT        NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Bootstrap creates the tables the service needs when they don't exist yet.
func (s *Store) Bootstrap(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap statement %d: %w", i, err)
		}
	}
	return nil
}
