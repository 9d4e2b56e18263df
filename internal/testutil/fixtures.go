package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateApplication inserts an application owned by ownerID
func (f *Fixtures) CreateApplication(t *testing.T, ownerID string, opts ...ApplicationOption) *models.Application {
	t.Helper()
	f.counter++

	app := &models.Application{
		Name:      fmt.Sprintf("app-%d", f.counter),
		APIKey:    fmt.Sprintf("api-key-%d", f.counter),
		CreatedBy: ownerID,
	}

	for _, opt := range opts {
		opt(app)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO applications (name, api_key, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, app.Name, app.APIKey, app.CreatedBy).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create application: %v", err)
	}

	return app
}

// ApplicationOption configures a test application
type ApplicationOption func(*models.Application)

// WithAppName sets the application's name
func WithAppName(name string) ApplicationOption {
	return func(a *models.Application) {
		a.Name = name
	}
}

// CreateKey inserts an unbound key for app
func (f *Fixtures) CreateKey(t *testing.T, app *models.Application, opts ...KeyOption) *models.Key {
	t.Helper()
	f.counter++

	now := time.Now().UTC()
	key := &models.Key{
		Key:         fmt.Sprintf("TEST-%06d", f.counter),
		APIKey:      app.APIKey,
		Prefix:      "TEST",
		CreatedAt:   now,
		ExpiresAt:   now.Add(24 * time.Hour),
		HWIDs:       []string{},
		DeviceLimit: 1,
	}

	for _, opt := range opts {
		opt(key)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO keys (key, api, prefix, created_at, expires_at, device_limit, banned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, key.Key, key.APIKey, key.Prefix, key.CreatedAt, key.ExpiresAt, key.DeviceLimit, key.Banned).Scan(&key.ID)
	if err != nil {
		t.Fatalf("failed to create key: %v", err)
	}

	return key
}

// KeyOption configures a test key
type KeyOption func(*models.Key)

// WithDeviceLimit sets the key's device limit
func WithDeviceLimit(limit int) KeyOption {
	return func(k *models.Key) {
		k.DeviceLimit = limit
	}
}

// WithExpiry sets the key's expiry instant
func WithExpiry(expiresAt time.Time) KeyOption {
	return func(k *models.Key) {
		k.ExpiresAt = expiresAt
	}
}

// Banned creates the key already banned
func Banned() KeyOption {
	return func(k *models.Key) {
		k.Banned = true
	}
}

// GrantSupport adds userID to support staff on behalf of the super admin
func (f *Fixtures) GrantSupport(t *testing.T, userID string) {
	t.Helper()
	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO supports (user_id, added_by) VALUES ($1, $2)
	`, userID, SuperAdminID)
	if err != nil {
		t.Fatalf("failed to grant support: %v", err)
	}
}
