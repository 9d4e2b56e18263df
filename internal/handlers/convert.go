package handlers

import (
	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/dimitrije/keyforge-api/pkg/dto"
)

func toApplicationResponse(a models.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:        a.ID,
		Name:      a.Name,
		APIKey:    a.APIKey,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		KeyCount:  a.KeyCount,
	}
}

func toApplicationResponses(apps []models.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, len(apps))
	for i, a := range apps {
		out[i] = toApplicationResponse(a)
	}
	return out
}

func toKeyResponse(k models.Key) dto.KeyResponse {
	hwids := k.HWIDs
	if hwids == nil {
		hwids = []string{}
	}
	return dto.KeyResponse{
		ID:          k.ID,
		Key:         k.Key,
		API:         k.APIKey,
		Prefix:      k.Prefix,
		CreatedAt:   k.CreatedAt,
		ExpiresAt:   k.ExpiresAt,
		HWIDs:       hwids,
		Banned:      k.Banned,
		Used:        k.Used,
		DeviceLimit: k.DeviceLimit,
		SlotsLeft:   k.SlotsLeft(),
		SystemInfo:  k.SystemInfo,
		FirstUsed:   k.FirstUsed,
	}
}

func toKeyResponses(keys []models.Key) []dto.KeyResponse {
	out := make([]dto.KeyResponse, len(keys))
	for i, k := range keys {
		out[i] = toKeyResponse(k)
	}
	return out
}

func toSupportResponse(g models.SupportGrant) dto.SupportResponse {
	return dto.SupportResponse{
		ID:      g.ID,
		UserID:  g.UserID,
		AddedBy: g.AddedBy,
		AddedAt: g.AddedAt,
	}
}

func toSupportResponses(grants []models.SupportGrant) []dto.SupportResponse {
	out := make([]dto.SupportResponse, len(grants))
	for i, g := range grants {
		out[i] = toSupportResponse(g)
	}
	return out
}
