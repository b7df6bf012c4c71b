package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// usersSchema is the canonical users table. status is the only source of
// account state; the legacy blocked flag from older deployments is dropped.
var usersSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		email      VARCHAR(100) NOT NULL UNIQUE,
		password   VARCHAR(255) NOT NULL,
		last_login TIMESTAMPTZ,
		status     VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'blocked')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`ALTER TABLE users DROP COLUMN IF EXISTS blocked`,
}

// EnsureSchema creates the users table if it does not exist yet.
// It is safe to run on every start.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	for _, stmt := range usersSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
