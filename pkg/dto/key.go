package dto

import (
	"time"

	"github.com/google/uuid"
)

type KeyResponse struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	API         string     `json:"api"`
	Prefix      string     `json:"prefix"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	HWIDs       []string   `json:"hwids"`
	Banned      bool       `json:"banned"`
	Used        bool       `json:"used"`
	DeviceLimit int        `json:"device_limit"`
	SlotsLeft   int        `json:"slots_left"`
	SystemInfo  *string    `json:"system_info,omitempty"`
	FirstUsed   *time.Time `json:"first_used,omitempty"`
}

type CreateKeyResponse struct {
	Envelope
	Key         string    `json:"key"`
	ExpiresAt   time.Time `json:"expires_at"`
	DeviceLimit int       `json:"device_limit"`
}

type KeyListResponse struct {
	Envelope
	Keys []KeyResponse `json:"keys"`
}

type KeyInfoResponse struct {
	Envelope
	KeyInfo KeyResponse `json:"key_info"`
}

type ValidateKeyResponse struct {
	Envelope
	Valid   bool         `json:"valid"`
	Reason  string       `json:"reason"`
	KeyInfo *KeyResponse `json:"key_info,omitempty"`
}
