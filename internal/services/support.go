package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
)

// SupportService manages support grants. Only the super admin may change them.
type SupportService struct {
	db          *database.DB
	permissions *PermissionService
}

func NewSupportService(db *database.DB, permissions *PermissionService) *SupportService {
	return &SupportService{db: db, permissions: permissions}
}

func (s *SupportService) Add(ctx context.Context, requesterID, userID string) (*models.SupportGrant, error) {
	if !s.permissions.IsSuperAdmin(requesterID) {
		return nil, ErrPermissionDenied
	}

	var grant models.SupportGrant
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO supports (user_id, added_by)
		VALUES ($1, $2)
		RETURNING id, user_id, added_by, added_at
	`, userID, requesterID).Scan(&grant.ID, &grant.UserID, &grant.AddedBy, &grant.AddedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateSupport
		}
		return nil, fmt.Errorf("add support: %w", err)
	}
	return &grant, nil
}

// Remove revokes a grant. The super admin's own id is never removable.
func (s *SupportService) Remove(ctx context.Context, requesterID, userID string) error {
	if !s.permissions.IsSuperAdmin(requesterID) {
		return ErrPermissionDenied
	}
	if s.permissions.IsSuperAdmin(userID) {
		return ErrCannotRemoveSuperAdmin
	}

	result, err := s.db.Pool.Exec(ctx, `DELETE FROM supports WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("remove support: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSupportNotFound
	}
	return nil
}

func (s *SupportService) List(ctx context.Context, requesterID string) ([]models.SupportGrant, error) {
	privileged, err := s.permissions.IsPrivileged(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !privileged {
		return nil, ErrPermissionDenied
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, user_id, added_by, added_at
		FROM supports
		ORDER BY added_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list supports: %w", err)
	}
	defer rows.Close()

	var grants []models.SupportGrant
	for rows.Next() {
		var g models.SupportGrant
		if err := rows.Scan(&g.ID, &g.UserID, &g.AddedBy, &g.AddedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

// Check reports whether userID is support staff and whether it is the super admin.
func (s *SupportService) Check(ctx context.Context, userID string) (isSupport, isAdmin bool, err error) {
	if s.permissions.IsSuperAdmin(userID) {
		return true, true, nil
	}
	isSupport, err = s.permissions.IsSupport(ctx, userID)
	return isSupport, false, err
}
