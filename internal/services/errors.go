package services

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")

	ErrApplicationNotFound = errors.New("application not found")
	ErrDuplicateName       = errors.New("application name already exists")
	ErrQuotaExceeded       = errors.New("application quota reached")

	ErrKeyNotFound = errors.New("key not found")

	ErrSupportNotFound        = errors.New("support user not found")
	ErrDuplicateSupport       = errors.New("user is already support staff")
	ErrCannotRemoveSuperAdmin = errors.New("the super admin cannot be removed")
)
