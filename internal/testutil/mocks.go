package testutil

import (
	"context"

	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/dimitrije/keyforge-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockApplicationService mocks the ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, ownerID, name string) (*models.Application, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) Delete(ctx context.Context, requesterID, name string) error {
	args := m.Called(ctx, requesterID, name)
	return args.Error(0)
}

func (m *MockApplicationService) List(ctx context.Context, requesterID string) ([]models.Application, bool, error) {
	args := m.Called(ctx, requesterID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Bool(1), args.Error(2)
}

func (m *MockApplicationService) CountOwned(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockApplicationService) Quota() int {
	args := m.Called()
	return args.Int(0)
}

// MockKeyService mocks the KeyService
type MockKeyService struct {
	mock.Mock
}

func (m *MockKeyService) Create(ctx context.Context, requesterID, apiKey string, params services.CreateKeyParams) (*models.Key, error) {
	args := m.Called(ctx, requesterID, apiKey, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Key), args.Error(1)
}

func (m *MockKeyService) Ban(ctx context.Context, requesterID, apiKey, key string) error {
	args := m.Called(ctx, requesterID, apiKey, key)
	return args.Error(0)
}

func (m *MockKeyService) Delete(ctx context.Context, requesterID, apiKey, key string) error {
	args := m.Called(ctx, requesterID, apiKey, key)
	return args.Error(0)
}

func (m *MockKeyService) ResetHWID(ctx context.Context, requesterID, apiKey, key string) error {
	args := m.Called(ctx, requesterID, apiKey, key)
	return args.Error(0)
}

func (m *MockKeyService) List(ctx context.Context, requesterID, apiKey string) ([]models.Key, error) {
	args := m.Called(ctx, requesterID, apiKey)
	keys, _ := args.Get(0).([]models.Key)
	return keys, args.Error(1)
}

func (m *MockKeyService) Get(ctx context.Context, requesterID, apiKey, key string) (*models.Key, error) {
	args := m.Called(ctx, requesterID, apiKey, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Key), args.Error(1)
}

// MockBindingService mocks the BindingService
type MockBindingService struct {
	mock.Mock
}

func (m *MockBindingService) Validate(ctx context.Context, req models.ValidationRequest) (*models.ValidationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValidationResult), args.Error(1)
}

// MockSupportService mocks the SupportService
type MockSupportService struct {
	mock.Mock
}

func (m *MockSupportService) Add(ctx context.Context, requesterID, userID string) (*models.SupportGrant, error) {
	args := m.Called(ctx, requesterID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportGrant), args.Error(1)
}

func (m *MockSupportService) Remove(ctx context.Context, requesterID, userID string) error {
	args := m.Called(ctx, requesterID, userID)
	return args.Error(0)
}

func (m *MockSupportService) List(ctx context.Context, requesterID string) ([]models.SupportGrant, error) {
	args := m.Called(ctx, requesterID)
	grants, _ := args.Get(0).([]models.SupportGrant)
	return grants, args.Error(1)
}

func (m *MockSupportService) Check(ctx context.Context, userID string) (bool, bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

// MockPermissionService mocks the PermissionService
type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) Resolve(ctx context.Context, userID, apiKey string) (models.Permission, error) {
	args := m.Called(ctx, userID, apiKey)
	return args.Get(0).(models.Permission), args.Error(1)
}

// MockHealthChecker mocks database health reporting
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Health(ctx context.Context) map[string]any {
	args := m.Called(ctx)
	return args.Get(0).(map[string]any)
}
