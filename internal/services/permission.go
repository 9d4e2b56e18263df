package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
)

// PermissionService resolves the three-tier authority:
// super admin, then support staff, then application owner.
type PermissionService struct {
	db           *database.DB
	superAdminID string
}

func NewPermissionService(db *database.DB, superAdminID string) *PermissionService {
	return &PermissionService{db: db, superAdminID: superAdminID}
}

func (s *PermissionService) IsSuperAdmin(userID string) bool {
	return userID != "" && userID == s.superAdminID
}

func (s *PermissionService) IsSupport(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM supports WHERE user_id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check support: %w", err)
	}
	return exists, nil
}

// IsPrivileged reports whether userID is the super admin or support staff.
func (s *PermissionService) IsPrivileged(ctx context.Context, userID string) (bool, error) {
	if s.IsSuperAdmin(userID) {
		return true, nil
	}
	return s.IsSupport(ctx, userID)
}

func (s *PermissionService) Resolve(ctx context.Context, userID, apiKey string) (models.Permission, error) {
	if s.IsSuperAdmin(userID) {
		return models.Permission{HasPermission: true, IsAdmin: true}, nil
	}

	support, err := s.IsSupport(ctx, userID)
	if err != nil {
		return models.Permission{}, err
	}
	if support {
		return models.Permission{HasPermission: true}, nil
	}

	var owns bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM applications WHERE api_key = $1 AND created_by = $2)
	`, apiKey, userID).Scan(&owns)
	if err != nil {
		return models.Permission{}, fmt.Errorf("check application owner: %w", err)
	}
	return models.Permission{HasPermission: owns}, nil
}

// Require returns ErrPermissionDenied unless userID may act on apiKey.
func (s *PermissionService) Require(ctx context.Context, userID, apiKey string) error {
	perm, err := s.Resolve(ctx, userID, apiKey)
	if err != nil {
		return err
	}
	if !perm.HasPermission {
		return ErrPermissionDenied
	}
	return nil
}
