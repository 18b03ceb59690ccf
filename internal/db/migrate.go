package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL UNIQUE,
	password    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate brings the schema up on startup. Idempotent, so safe to run
// on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, usersTable)

	return err
}
