package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// bootstrapLockID serializes schema creation across processes sharing a database.
const bootstrapLockID int64 = 0x6b6579666f726765

// SystemActor is recorded as added_by for rows seeded at bootstrap.
const SystemActor = "system"

// Bootstrapper creates the schema and seeds the super-admin at most once per
// process. A failed attempt leaves it uninitialized so the next call retries.
type Bootstrapper struct {
	db           *DB
	superAdminID string
	logger       zerolog.Logger

	mu          sync.Mutex
	initialized bool
}

func NewBootstrapper(db *DB, superAdminID string, logger zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{
		db:           db,
		superAdminID: superAdminID,
		logger:       logger.With().Str("component", "bootstrap").Logger(),
	}
}

func (b *Bootstrapper) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

func (b *Bootstrapper) Ensure(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if b.superAdminID == "" {
		return errors.New("super admin id is required")
	}

	err := b.db.ExecTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockID); err != nil {
			return fmt.Errorf("acquire bootstrap lock: %w", err)
		}
		if err := migrate(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO supports (user_id, added_by)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
		`, b.superAdminID, SystemActor); err != nil {
			return fmt.Errorf("seed super admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.initialized = true
	b.logger.Info().Int("migrations", len(migrations)).Msg("schema initialized")
	return nil
}
