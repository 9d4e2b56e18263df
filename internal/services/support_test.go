package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSupportService(t *testing.T) (*SupportService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewSupportService(db, NewPermissionService(db, testSuperAdmin)), mock
}

func TestSupportService_Add(t *testing.T) {
	svc, mock := setupSupportService(t)
	grantID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO supports \(user_id, added_by\)`).
		WithArgs("helper", testSuperAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "added_by", "added_at"}).
			AddRow(grantID, "helper", testSuperAdmin, now))

	grant, err := svc.Add(context.Background(), testSuperAdmin, "helper")

	require.NoError(t, err)
	assert.Equal(t, grantID, grant.ID)
	assert.Equal(t, "helper", grant.UserID)
	assert.Equal(t, testSuperAdmin, grant.AddedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_Add_Duplicate(t *testing.T) {
	svc, mock := setupSupportService(t)

	mock.ExpectQuery(`INSERT INTO supports`).
		WithArgs("helper", testSuperAdmin).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Add(context.Background(), testSuperAdmin, "helper")

	assert.ErrorIs(t, err, ErrDuplicateSupport)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_Add_OnlySuperAdmin(t *testing.T) {
	svc, mock := setupSupportService(t)

	_, err := svc.Add(context.Background(), "helper", "another")

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_Remove(t *testing.T) {
	svc, mock := setupSupportService(t)

	mock.ExpectExec(`DELETE FROM supports WHERE user_id`).
		WithArgs("helper").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Remove(context.Background(), testSuperAdmin, "helper")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_Remove_NotFound(t *testing.T) {
	svc, mock := setupSupportService(t)

	mock.ExpectExec(`DELETE FROM supports`).
		WithArgs("nobody").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Remove(context.Background(), testSuperAdmin, "nobody")

	assert.ErrorIs(t, err, ErrSupportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_Remove_SuperAdminIsPermanent(t *testing.T) {
	svc, mock := setupSupportService(t)

	err := svc.Remove(context.Background(), testSuperAdmin, testSuperAdmin)
	assert.ErrorIs(t, err, ErrCannotRemoveSuperAdmin)

	err = svc.Remove(context.Background(), "helper", testSuperAdmin)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_List(t *testing.T) {
	svc, mock := setupSupportService(t)
	now := time.Now()

	expectSupportCheck(mock, "helper", true)
	mock.ExpectQuery(`SELECT id, user_id, added_by, added_at FROM supports`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "added_by", "added_at"}).
			AddRow(uuid.New(), testSuperAdmin, database.SystemActor, now).
			AddRow(uuid.New(), "helper", testSuperAdmin, now))

	grants, err := svc.List(context.Background(), "helper")

	require.NoError(t, err)
	assert.Len(t, grants, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_List_Denied(t *testing.T) {
	svc, mock := setupSupportService(t)
	expectSupportCheck(mock, "owner", false)

	_, err := svc.List(context.Background(), "owner")

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportService_Check(t *testing.T) {
	svc, mock := setupSupportService(t)

	isSupport, isAdmin, err := svc.Check(context.Background(), testSuperAdmin)
	require.NoError(t, err)
	assert.True(t, isSupport)
	assert.True(t, isAdmin)

	expectSupportCheck(mock, "helper", true)
	isSupport, isAdmin, err = svc.Check(context.Background(), "helper")
	require.NoError(t, err)
	assert.True(t, isSupport)
	assert.False(t, isAdmin)

	assert.NoError(t, mock.ExpectationsWereMet())
}
