package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Key struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	APIKey      string     `json:"api"`
	Prefix      string     `json:"prefix"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	HWIDs       []string   `json:"hwids"`
	Banned      bool       `json:"banned"`
	Used        bool       `json:"used"`
	DeviceLimit int        `json:"device_limit"`
	SystemInfo  *string    `json:"system_info,omitempty"`
	FirstUsed   *time.Time `json:"first_used,omitempty"`
}

func (k *Key) IsExpired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

func (k *Key) HasHWID(hwid string) bool {
	return slices.Contains(k.HWIDs, hwid)
}

// SlotsLeft is the number of additional devices the key can bind.
func (k *Key) SlotsLeft() int {
	return max(k.DeviceLimit-len(k.HWIDs), 0)
}
