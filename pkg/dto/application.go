package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	KeyCount  int       `json:"key_count"`
}

type CreateApplicationResponse struct {
	Envelope
	APIKey      string              `json:"api_key"`
	Application ApplicationResponse `json:"application"`
	Remaining   int                 `json:"remaining"`
}

type ApplicationListResponse struct {
	Envelope
	Applications []ApplicationResponse `json:"applications"`
	IsAdmin      bool                  `json:"is_admin"`
}

type ApplicationCountResponse struct {
	Envelope
	Count     int `json:"count"`
	Quota     int `json:"quota"`
	Remaining int `json:"remaining"`
}
