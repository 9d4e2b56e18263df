package models

import (
	"time"

	"github.com/google/uuid"
)

type SupportGrant struct {
	ID      uuid.UUID `json:"id"`
	UserID  string    `json:"user_id"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

// Permission is the outcome of resolving a user against an application.
type Permission struct {
	HasPermission bool `json:"has_permission"`
	IsAdmin       bool `json:"is_admin"`
}
