package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey_SlotsLeft(t *testing.T) {
	tests := []struct {
		name  string
		key   Key
		slots int
	}{
		{"fresh", Key{DeviceLimit: 2}, 2},
		{"partly bound", Key{DeviceLimit: 2, HWIDs: []string{"H1"}}, 1},
		{"full", Key{DeviceLimit: 2, HWIDs: []string{"H1", "H2"}}, 0},
		{"limit lowered below bindings", Key{DeviceLimit: 1, HWIDs: []string{"H1", "H2"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.slots, tt.key.SlotsLeft())
		})
	}
}

func TestKey_IsExpired(t *testing.T) {
	expires := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	k := Key{ExpiresAt: expires}

	assert.False(t, k.IsExpired(expires.Add(-time.Second)))
	assert.False(t, k.IsExpired(expires))
	assert.True(t, k.IsExpired(expires.Add(time.Nanosecond)))
}
