package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/jackc/pgx/v5"
)

const (
	defaultDeviceLimit = 1
	maxKeyAttempts     = 3
)

const keyColumns = `id, key, api, prefix, created_at, expires_at, hwids, banned, used, device_limit, system_info, first_used`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKey(row rowScanner) (*models.Key, error) {
	var k models.Key
	err := row.Scan(
		&k.ID, &k.Key, &k.APIKey, &k.Prefix, &k.CreatedAt, &k.ExpiresAt,
		&k.HWIDs, &k.Banned, &k.Used, &k.DeviceLimit, &k.SystemInfo, &k.FirstUsed,
	)
	if err != nil {
		return nil, err
	}
	if k.HWIDs == nil {
		k.HWIDs = []string{}
	}
	return &k, nil
}

type KeyService struct {
	db          *database.DB
	permissions *PermissionService
	generator   Generator
	now         func() time.Time
}

func NewKeyService(db *database.DB, permissions *PermissionService, generator Generator) *KeyService {
	return &KeyService{
		db:          db,
		permissions: permissions,
		generator:   generator,
		now:         time.Now,
	}
}

type CreateKeyParams struct {
	Prefix       string
	LifetimeDays float64
	DeviceLimit  int
}

// Lifetime converts fractional days to a duration.
func (p CreateKeyParams) Lifetime() time.Duration {
	return time.Duration(p.LifetimeDays * float64(24*time.Hour))
}

func (s *KeyService) Create(ctx context.Context, requesterID, apiKey string, params CreateKeyParams) (*models.Key, error) {
	if err := s.permissions.Require(ctx, requesterID, apiKey); err != nil {
		return nil, err
	}

	deviceLimit := params.DeviceLimit
	if deviceLimit <= 0 {
		deviceLimit = defaultDeviceLimit
	}
	prefix := strings.TrimSpace(params.Prefix)
	createdAt := s.now().UTC()
	expiresAt := createdAt.Add(params.Lifetime())

	for attempt := 1; ; attempt++ {
		keyString, err := s.generator.LicenseKey(prefix)
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}

		key, err := scanKey(s.db.Pool.QueryRow(ctx, `
			INSERT INTO keys (key, api, prefix, created_at, expires_at, device_limit)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+keyColumns,
			keyString, apiKey, prefix, createdAt, expiresAt, deviceLimit))
		if err == nil {
			return key, nil
		}

		switch {
		case database.IsForeignKeyViolation(err):
			return nil, ErrApplicationNotFound
		case database.IsUniqueViolation(err) && attempt < maxKeyAttempts:
			continue
		default:
			return nil, fmt.Errorf("create key: %w", err)
		}
	}
}

// Ban marks the key banned. Banning an already banned key succeeds.
func (s *KeyService) Ban(ctx context.Context, requesterID, apiKey, key string) error {
	if err := s.permissions.Require(ctx, requesterID, apiKey); err != nil {
		return err
	}

	result, err := s.db.Pool.Exec(ctx, `
		UPDATE keys SET banned = TRUE
		WHERE key = $1 AND api = $2
	`, key, apiKey)
	if err != nil {
		return fmt.Errorf("ban key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (s *KeyService) Delete(ctx context.Context, requesterID, apiKey, key string) error {
	if err := s.permissions.Require(ctx, requesterID, apiKey); err != nil {
		return err
	}

	result, err := s.db.Pool.Exec(ctx, `DELETE FROM keys WHERE key = $1 AND api = $2`, key, apiKey)
	if err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// ResetHWID returns the key to its freshly issued state.
func (s *KeyService) ResetHWID(ctx context.Context, requesterID, apiKey, key string) error {
	if err := s.permissions.Require(ctx, requesterID, apiKey); err != nil {
		return err
	}

	result, err := s.db.Pool.Exec(ctx, `
		UPDATE keys
		SET hwids = '{}', used = FALSE, system_info = NULL, first_used = NULL
		WHERE key = $1 AND api = $2
	`, key, apiKey)
	if err != nil {
		return fmt.Errorf("reset hwid: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// List returns the application's keys, newest first.
func (s *KeyService) List(ctx context.Context, requesterID, apiKey string) ([]models.Key, error) {
	if err := s.permissions.Require(ctx, requesterID, apiKey); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+keyColumns+`
		FROM keys
		WHERE api = $1
		ORDER BY created_at DESC
	`, apiKey)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []models.Key
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *KeyService) Get(ctx context.Context, requesterID, apiKey, key string) (*models.Key, error) {
	if err := s.permissions.Require(ctx, requesterID, apiKey); err != nil {
		return nil, err
	}

	k, err := scanKey(s.db.Pool.QueryRow(ctx, `
		SELECT `+keyColumns+`
		FROM keys
		WHERE key = $1 AND api = $2
	`, key, apiKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("get key: %w", err)
	}
	return k, nil
}
