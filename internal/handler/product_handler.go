package handler

import (
	"fmt"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/qr"
	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUsername(c *fiber.Ctx) string {
	username := c.Locals("username")
	if username == nil {
		return "unknown"
	}
	return username.(string)
}

// CreateBatch generates a batch of serialized units for one partner
// POST /api/v1/products
func (h *ProductHandler) CreateBatch(c *fiber.Ctx) error {
	var req service.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	result, err := h.service.CreateBatch(&req, getUserID(c))
	if err != nil {
		// A partial batch is still reported: callers must learn how many
		// units actually exist.
		if result != nil && result.Created > 0 {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"success": false,
				"data":    result,
				"message": fmt.Sprintf("Batch incomplete: %d of %d units created: %v", result.Created, result.Requested, err),
			})
		}
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    result,
		"message": fmt.Sprintf("%d units created", result.Created),
	})
}

// GetProducts lists every unit
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAll()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, products)
}

// UpdateCondition sets the physical condition of a unit, regardless of status
// PATCH /api/v1/products/:id
func (h *ProductHandler) UpdateCondition(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid product ID")
	}

	var req struct {
		Condition model.ProductCondition `json:"condition"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	product, err := h.service.UpdateCondition(id, req.Condition)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondMessage(c, product, "Condition updated")
}

// QRCodeImage renders the unit's payload as a printable QR symbol
// GET /api/v1/products/:id/qrcode
func (h *ProductHandler) QRCodeImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid product ID")
	}

	product, err := h.service.GetByID(id)
	if err != nil {
		return respondServiceError(c, err)
	}

	size := c.QueryInt("size", 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := qr.ImagePNG(product.QRCode, size)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.png"`, product.QRCode))
	return c.Send(png)
}

// Export streams the full unit manifest as an .xlsx workbook
// GET /api/v1/products/export
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	products, err := h.service.GetAll()
	if err != nil {
		return respondServiceError(c, err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"QR Code", "Partner", "Province", "Batch", "Manufacturing Date", "Expiry Date", "Status", "Condition", "Scanned At"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, p := range products {
		row := i + 2
		partnerName, province := "", ""
		if p.Partner != nil {
			partnerName = p.Partner.Name
			province = p.Partner.Province
		}
		scannedAt := ""
		if p.ScannedAt != nil {
			scannedAt = p.ScannedAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			p.QRCode,
			partnerName,
			province,
			p.BatchNumber,
			p.ManufacturingDate.Format("2006-01-02"),
			p.ExpiryDate.Format("2006-01-02"),
			string(p.Status),
			string(p.Condition),
			scannedAt,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="units.xlsx"`)
	if err := f.Write(c.Response().BodyWriter()); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to write export")
	}
	return nil
}
