package dto

import (
	"time"

	"github.com/google/uuid"
)

type SupportResponse struct {
	ID      uuid.UUID `json:"id"`
	UserID  string    `json:"user_id"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

type AddSupportResponse struct {
	Envelope
	Support SupportResponse `json:"support"`
}

type SupportListResponse struct {
	Envelope
	Supports []SupportResponse `json:"supports"`
}

type CheckSupportResponse struct {
	Envelope
	IsSupport bool `json:"is_support"`
	IsAdmin   bool `json:"is_admin"`
}

type PermissionResponse struct {
	Envelope
	HasPermission bool `json:"has_permission"`
	IsAdmin       bool `json:"is_admin"`
}
