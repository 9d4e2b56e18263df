package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL UNIQUE,
		api_key VARCHAR(128) NOT NULL UNIQUE,
		created_by VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS keys (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		key VARCHAR(255) NOT NULL UNIQUE,
		api VARCHAR(128) NOT NULL REFERENCES applications(api_key) ON DELETE CASCADE,
		prefix VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		hwids TEXT[] NOT NULL DEFAULT '{}',
		banned BOOLEAN NOT NULL DEFAULT FALSE,
		used BOOLEAN NOT NULL DEFAULT FALSE,
		device_limit INTEGER NOT NULL DEFAULT 1 CHECK (device_limit >= 1),
		system_info TEXT,
		first_used TIMESTAMP WITH TIME ZONE,
		CONSTRAINT keys_hwids_within_limit CHECK (cardinality(hwids) <= device_limit)
	)`,

	`CREATE TABLE IF NOT EXISTS supports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id VARCHAR(255) NOT NULL UNIQUE,
		added_by VARCHAR(255) NOT NULL,
		added_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_applications_created_by ON applications(created_by)`,
	`CREATE INDEX IF NOT EXISTS idx_keys_api ON keys(api)`,
	`CREATE INDEX IF NOT EXISTS idx_keys_api_created_at ON keys(api, created_at DESC)`,
}

// Migrations returns the ordered schema statements.
func Migrations() []string {
	out := make([]string, len(migrations))
	copy(out, migrations)
	return out
}

// migrate runs every statement inside tx. Bootstrapper.Ensure is the only caller.
func migrate(ctx context.Context, tx pgx.Tx) error {
	for i, migration := range migrations {
		if _, err := tx.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
