package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSuperAdmin = "root-user"

func setupPermissionService(t *testing.T) (*PermissionService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewPermissionService(db, testSuperAdmin), mock
}

func expectSupportCheck(mock pgxmock.PgxPoolIface, userID string, isSupport bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM supports WHERE user_id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(isSupport))
}

func expectOwnerCheck(mock pgxmock.PgxPoolIface, apiKey, userID string, owns bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM applications WHERE api_key`).
		WithArgs(apiKey, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(owns))
}

func TestPermissionService_Resolve_SuperAdmin(t *testing.T) {
	svc, mock := setupPermissionService(t)

	perm, err := svc.Resolve(context.Background(), testSuperAdmin, "any-api")

	require.NoError(t, err)
	assert.True(t, perm.HasPermission)
	assert.True(t, perm.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionService_Resolve_Support(t *testing.T) {
	svc, mock := setupPermissionService(t)
	expectSupportCheck(mock, "helper", true)

	perm, err := svc.Resolve(context.Background(), "helper", "any-api")

	require.NoError(t, err)
	assert.True(t, perm.HasPermission)
	assert.False(t, perm.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionService_Resolve_Owner(t *testing.T) {
	svc, mock := setupPermissionService(t)
	expectSupportCheck(mock, "owner", false)
	expectOwnerCheck(mock, "api-1", "owner", true)

	perm, err := svc.Resolve(context.Background(), "owner", "api-1")

	require.NoError(t, err)
	assert.True(t, perm.HasPermission)
	assert.False(t, perm.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionService_Resolve_Stranger(t *testing.T) {
	svc, mock := setupPermissionService(t)
	expectSupportCheck(mock, "stranger", false)
	expectOwnerCheck(mock, "api-1", "stranger", false)

	perm, err := svc.Resolve(context.Background(), "stranger", "api-1")

	require.NoError(t, err)
	assert.False(t, perm.HasPermission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionService_Resolve_DatabaseError(t *testing.T) {
	svc, mock := setupPermissionService(t)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM supports`).
		WithArgs("someone").
		WillReturnError(errors.New("connection refused"))

	_, err := svc.Resolve(context.Background(), "someone", "api-1")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionService_Require(t *testing.T) {
	svc, mock := setupPermissionService(t)
	expectSupportCheck(mock, "stranger", false)
	expectOwnerCheck(mock, "api-1", "stranger", false)

	err := svc.Require(context.Background(), "stranger", "api-1")

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionService_EmptyUserIsNeverSuperAdmin(t *testing.T) {
	svc := NewPermissionService(&database.DB{}, "")
	assert.False(t, svc.IsSuperAdmin(""))
}
