package handlers

import (
	"net/http"

	"github.com/dimitrije/keyforge-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type HealthHandler struct {
	db HealthChecker
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *drift.Context) {
	database := h.db.Health(c.Request.Context())

	status := http.StatusOK
	overall := "ok"
	if database["status"] != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	_ = c.JSON(status, dto.HealthResponse{
		Status:   overall,
		Database: database,
	})
}
