package db

import (
	"context"

	"pressa/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	pool, err := pgxpool.New(context.Background(), dsn)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(context.Background())
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(context.Background(), pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// ensureSchema создаёт таблицы и индексы при первом запуске.
// Составной индекс по (status, updated_at) нужен для выборок
// «опубликованные, свежие сверху, не больше N».
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			full_name     TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title           TEXT NOT NULL,
			slug            TEXT NOT NULL UNIQUE,
			content         TEXT NOT NULL,
			excerpt         TEXT,
			featured_image  TEXT,
			status          TEXT NOT NULL DEFAULT 'draft',
			author_id       UUID NOT NULL,
			seo_title       TEXT,
			seo_description TEXT,
			tags            JSONB NOT NULL DEFAULT '[]'::jsonb,
			category        TEXT,
			published_at    TIMESTAMPTZ,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_status_updated ON posts (status, updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author_updated ON posts (author_id, updated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS ai_saved_items (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    UUID NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			result     JSONB NOT NULL,
			topic      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_saved_items_user ON ai_saved_items (user_id, created_at DESC)`,
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
