package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyRowColumns = []string{
	"id", "key", "api", "prefix", "created_at", "expires_at",
	"hwids", "banned", "used", "device_limit", "system_info", "first_used",
}

func keyRows(keys ...*models.Key) *pgxmock.Rows {
	rows := pgxmock.NewRows(keyRowColumns)
	for _, k := range keys {
		rows.AddRow(k.ID, k.Key, k.APIKey, k.Prefix, k.CreatedAt, k.ExpiresAt,
			k.HWIDs, k.Banned, k.Used, k.DeviceLimit, k.SystemInfo, k.FirstUsed)
	}
	return rows
}

func newTestKey(key, apiKey string, deviceLimit int, hwids ...string) *models.Key {
	now := time.Now().UTC()
	if hwids == nil {
		hwids = []string{}
	}
	return &models.Key{
		ID:          uuid.New(),
		Key:         key,
		APIKey:      apiKey,
		Prefix:      "PRO",
		CreatedAt:   now,
		ExpiresAt:   now.Add(30 * 24 * time.Hour),
		HWIDs:       hwids,
		DeviceLimit: deviceLimit,
		SystemInfo:  (*string)(nil),
		FirstUsed:   (*time.Time)(nil),
	}
}

func setupKeyService(t *testing.T, gen Generator) (*KeyService, pgxmock.PgxPoolIface, time.Time) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	svc := NewKeyService(db, NewPermissionService(db, testSuperAdmin), gen)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, mock, fixed
}

// expectOwner primes the resolver for an ordinary owner of apiKey.
func expectOwner(mock pgxmock.PgxPoolIface, userID, apiKey string, owns bool) {
	expectSupportCheck(mock, userID, false)
	expectOwnerCheck(mock, apiKey, userID, owns)
}

func TestKeyService_Create(t *testing.T) {
	svc, mock, now := setupKeyService(t, &fixedGenerator{suffixes: []string{"AB12CD"}})
	expires := now.Add(30 * 24 * time.Hour)

	created := newTestKey("PRO-AB12CD", "api-foo", 2)
	created.CreatedAt, created.ExpiresAt = now, expires

	expectOwner(mock, "u1", "api-foo", true)
	mock.ExpectQuery(`INSERT INTO keys \(key, api, prefix, created_at, expires_at, device_limit\)`).
		WithArgs("PRO-AB12CD", "api-foo", "PRO", now, expires, 2).
		WillReturnRows(keyRows(created))

	key, err := svc.Create(context.Background(), "u1", "api-foo", CreateKeyParams{
		Prefix: "PRO", LifetimeDays: 30, DeviceLimit: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, "PRO-AB12CD", key.Key)
	assert.Equal(t, 2, key.DeviceLimit)
	assert.Equal(t, expires, key.ExpiresAt)
	assert.Empty(t, key.HWIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Create_DefaultsDeviceLimitAndFractionalDays(t *testing.T) {
	svc, mock, now := setupKeyService(t, &fixedGenerator{suffixes: []string{"ZZZZZZ"}})
	expires := now.Add(12 * time.Hour)

	created := newTestKey("ZZZZZZ", "api-foo", 1)

	mock.ExpectQuery(`INSERT INTO keys`).
		WithArgs("ZZZZZZ", "api-foo", "", now, expires, 1).
		WillReturnRows(keyRows(created))

	key, err := svc.Create(context.Background(), testSuperAdmin, "api-foo", CreateKeyParams{
		LifetimeDays: 0.5, DeviceLimit: -3,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, key.DeviceLimit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Create_RetriesOnCollision(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{suffixes: []string{"AAAAAA", "BBBBBB"}})

	mock.ExpectQuery(`INSERT INTO keys`).
		WithArgs("PRO-AAAAAA", "api-foo", "PRO", pgxmock.AnyArg(), pgxmock.AnyArg(), 1).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "keys_key_key"})
	mock.ExpectQuery(`INSERT INTO keys`).
		WithArgs("PRO-BBBBBB", "api-foo", "PRO", pgxmock.AnyArg(), pgxmock.AnyArg(), 1).
		WillReturnRows(keyRows(newTestKey("PRO-BBBBBB", "api-foo", 1)))

	key, err := svc.Create(context.Background(), testSuperAdmin, "api-foo", CreateKeyParams{
		Prefix: "PRO", LifetimeDays: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "PRO-BBBBBB", key.Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Create_UnknownApplication(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{suffixes: []string{"AAAAAA"}})

	mock.ExpectQuery(`INSERT INTO keys`).
		WithArgs("AAAAAA", "api-gone", "", pgxmock.AnyArg(), pgxmock.AnyArg(), 1).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := svc.Create(context.Background(), testSuperAdmin, "api-gone", CreateKeyParams{LifetimeDays: 1})

	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Create_PermissionDenied(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})
	expectOwner(mock, "u2", "api-foo", false)

	_, err := svc.Create(context.Background(), "u2", "api-foo", CreateKeyParams{LifetimeDays: 1})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Ban(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})

	expectOwner(mock, "u1", "api-foo", true)
	mock.ExpectExec(`UPDATE keys SET banned = TRUE`).
		WithArgs("PRO-AB12CD", "api-foo").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.Ban(context.Background(), "u1", "api-foo", "PRO-AB12CD")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Ban_NotFound(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})

	mock.ExpectExec(`UPDATE keys SET banned = TRUE`).
		WithArgs("MISSING", "api-foo").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := svc.Ban(context.Background(), testSuperAdmin, "api-foo", "MISSING")

	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Delete(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})

	mock.ExpectExec(`DELETE FROM keys WHERE key`).
		WithArgs("PRO-AB12CD", "api-foo").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, svc.Delete(context.Background(), testSuperAdmin, "api-foo", "PRO-AB12CD"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_ResetHWID(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})

	expectOwner(mock, "u1", "api-foo", true)
	mock.ExpectExec(`UPDATE keys SET hwids = '\{\}', used = FALSE, system_info = NULL, first_used = NULL`).
		WithArgs("PRO-AB12CD", "api-foo").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, svc.ResetHWID(context.Background(), "u1", "api-foo", "PRO-AB12CD"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_ResetHWID_PermissionDenied(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})
	expectOwner(mock, "u2", "api-foo", false)

	err := svc.ResetHWID(context.Background(), "u2", "api-foo", "PRO-AB12CD")

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_List(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})

	newer := newTestKey("PRO-NEWER1", "api-foo", 1)
	older := newTestKey("PRO-OLDER1", "api-foo", 1, "H1")

	mock.ExpectQuery(`SELECT .+ FROM keys WHERE api = \$1 ORDER BY created_at DESC`).
		WithArgs("api-foo").
		WillReturnRows(keyRows(newer, older))

	keys, err := svc.List(context.Background(), testSuperAdmin, "api-foo")

	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "PRO-NEWER1", keys[0].Key)
	assert.Equal(t, []string{"H1"}, keys[1].HWIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyService_Get_NotFound(t *testing.T) {
	svc, mock, _ := setupKeyService(t, &fixedGenerator{})

	mock.ExpectQuery(`SELECT .+ FROM keys WHERE key = \$1 AND api = \$2`).
		WithArgs("MISSING", "api-foo").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), testSuperAdmin, "api-foo", "MISSING")

	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
