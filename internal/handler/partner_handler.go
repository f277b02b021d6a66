package handler

import (
	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PartnerHandler struct {
	service service.PartnerService
}

func NewPartnerHandler(s service.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: s}
}

// GetPartners lists all partners with their units
// GET /api/v1/partners
func (h *PartnerHandler) GetPartners(c *fiber.Ctx) error {
	partners, err := h.service.GetAll()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, partners)
}

// GetPartner returns one partner with its units
// GET /api/v1/partners/:id
func (h *PartnerHandler) GetPartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid partner ID")
	}

	partner, err := h.service.GetByID(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, partner)
}

// CreatePartner registers a new partner
// POST /api/v1/partners
func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	var req service.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	partner, err := h.service.Create(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    partner,
		"message": "Partner created",
	})
}

// UpdatePartner replaces the editable contact fields
// PUT /api/v1/partners/:id
func (h *PartnerHandler) UpdatePartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid partner ID")
	}

	var req service.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	partner, err := h.service.Update(id, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondMessage(c, partner, "Partner updated")
}

// DeletePartner removes the partner and all of its units
// DELETE /api/v1/partners/:id
func (h *PartnerHandler) DeletePartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid partner ID")
	}

	if err := h.service.Delete(id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Partner deleted"})
}
