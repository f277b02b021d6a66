package handler

import (
	"ubt-tracker/internal/model"
	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns overview statistics for both lifecycle axes
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, stats)
}

// GetRecentScans returns the latest scan log entries
// GET /api/v1/dashboard/recent-scans?limit=20
func (h *DashboardHandler) GetRecentScans(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	scans, err := h.service.GetRecentScans(limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, scans)
}

// GetProvinces lists the closed enumeration of administrative regions
// GET /api/v1/provinces
func GetProvinces(c *fiber.Ctx) error {
	return respondOK(c, model.Provinces)
}
