package handler

import (
	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScanHandler struct {
	service service.ScanService
}

func NewScanHandler(s service.ScanService) *ScanHandler {
	return &ScanHandler{service: s}
}

// Resolve looks a unit up by its QR payload without mutating it
// GET /api/v1/products/scan/:qrCode
func (h *ScanHandler) Resolve(c *fiber.Ctx) error {
	view, err := h.service.Resolve(c.Params("qrCode"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, view)
}

// Scan resolves the payload and records the observation
// POST /api/v1/products/scan/:qrCode
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	userID, err := uuid.Parse(getUserID(c))
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Invalid session")
	}

	view, err := h.service.Scan(c.Params("qrCode"), userID, getUsername(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, view)
}
