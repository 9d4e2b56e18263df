package handlers

import (
	"context"

	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/dimitrije/keyforge-api/internal/services"
)

// ApplicationServiceInterface defines the methods used by handlers from ApplicationService
type ApplicationServiceInterface interface {
	Create(ctx context.Context, ownerID, name string) (*models.Application, error)
	Delete(ctx context.Context, requesterID, name string) error
	List(ctx context.Context, requesterID string) ([]models.Application, bool, error)
	CountOwned(ctx context.Context, userID string) (int, error)
	Quota() int
}

// KeyServiceInterface defines the methods used by handlers from KeyService
type KeyServiceInterface interface {
	Create(ctx context.Context, requesterID, apiKey string, params services.CreateKeyParams) (*models.Key, error)
	Ban(ctx context.Context, requesterID, apiKey, key string) error
	Delete(ctx context.Context, requesterID, apiKey, key string) error
	ResetHWID(ctx context.Context, requesterID, apiKey, key string) error
	List(ctx context.Context, requesterID, apiKey string) ([]models.Key, error)
	Get(ctx context.Context, requesterID, apiKey, key string) (*models.Key, error)
}

// BindingServiceInterface defines the methods used by handlers from BindingService
type BindingServiceInterface interface {
	Validate(ctx context.Context, req models.ValidationRequest) (*models.ValidationResult, error)
}

// SupportServiceInterface defines the methods used by handlers from SupportService
type SupportServiceInterface interface {
	Add(ctx context.Context, requesterID, userID string) (*models.SupportGrant, error)
	Remove(ctx context.Context, requesterID, userID string) error
	List(ctx context.Context, requesterID string) ([]models.SupportGrant, error)
	Check(ctx context.Context, userID string) (isSupport, isAdmin bool, err error)
}

// PermissionServiceInterface defines the methods used by handlers from PermissionService
type PermissionServiceInterface interface {
	Resolve(ctx context.Context, userID, apiKey string) (models.Permission, error)
}

// HealthChecker reports datastore health
type HealthChecker interface {
	Health(ctx context.Context) map[string]any
}

// Ensure concrete types implement interfaces
var (
	_ ApplicationServiceInterface = (*services.ApplicationService)(nil)
	_ KeyServiceInterface         = (*services.KeyService)(nil)
	_ BindingServiceInterface     = (*services.BindingService)(nil)
	_ SupportServiceInterface     = (*services.SupportService)(nil)
	_ PermissionServiceInterface  = (*services.PermissionService)(nil)
)
