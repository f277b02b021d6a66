package service

import (
	"errors"
	"log"
	"net/url"
	"time"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository"
	"ubt-tracker/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanService resolves raw QR payloads to units. Resolve is the read-only
// lookup, Scan additionally stamps the unit as scanned and appends to the
// scan log. Payloads from the camera, an uploaded image or manual entry all
// arrive here as the same string.
type ScanService interface {
	Resolve(rawCode string) (*model.ScannedView, error)
	Scan(rawCode string, userID uuid.UUID, username string) (*model.ScannedView, error)
}

type scanService struct {
	productRepo repository.ProductRepository
	partnerRepo repository.PartnerRepository
	scanLogRepo repository.ScanLogRepository
	wsHub       *ws.Hub
}

func NewScanService(productRepo repository.ProductRepository, partnerRepo repository.PartnerRepository, scanLogRepo repository.ScanLogRepository, hub *ws.Hub) ScanService {
	return &scanService{
		productRepo: productRepo,
		partnerRepo: partnerRepo,
		scanLogRepo: scanLogRepo,
		wsHub:       hub,
	}
}

// normalizeCode percent-decodes payloads that arrived URL-encoded. A payload
// that fails to decode is used as-is.
func normalizeCode(raw string) string {
	if decoded, err := url.QueryUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// partnerRef loads the minimal partner projection. A dangling partner
// reference degrades to null instead of failing the scan.
func (s *scanService) partnerRef(partnerID uuid.UUID) *model.PartnerRef {
	partner, err := s.partnerRepo.FindByID(partnerID)
	if err != nil {
		return nil
	}
	return partner.ToRef()
}

func (s *scanService) Resolve(rawCode string) (*model.ScannedView, error) {
	code := normalizeCode(rawCode)

	product, err := s.productRepo.FindByQRCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return &model.ScannedView{
		Product:     *product,
		PartnerInfo: s.partnerRef(product.PartnerID),
	}, nil
}

func (s *scanService) Scan(rawCode string, userID uuid.UUID, username string) (*model.ScannedView, error) {
	code := normalizeCode(rawCode)

	// 1. Lookup
	product, err := s.productRepo.FindByQRCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// 2. Stamp. Every scan re-stamps scanned_at/scanned_by, so the unit
	// carries the last observation; the scan log below keeps the history.
	now := time.Now()
	scannedBy := userID.String()
	if err := s.productRepo.MarkScanned(product.ID, scannedBy, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Status = model.StatusScanned
	product.ScannedAt = &now
	product.ScannedBy = &scannedBy

	// 3. History entry. A log failure must not undo a successful scan.
	if err := s.scanLogRepo.Create(&model.ScanLog{
		ProductID: product.ID,
		UserID:    userID,
		QRCode:    product.QRCode,
	}); err != nil {
		log.Printf("Warning: failed to record scan log for %s: %v", product.QRCode, err)
	}

	// 4. Enrich with partner context
	partnerInfo := s.partnerRef(product.PartnerID)

	// 5. Broadcast ke dashboard feed
	if s.wsHub != nil {
		payload := map[string]interface{}{
			"type":       "product_scanned",
			"product_id": product.ID,
			"qr_code":    product.QRCode,
			"status":     product.Status,
			"condition":  product.Condition,
			"scanned_by": username,
			"scanned_at": now,
		}
		if partnerInfo != nil {
			payload["partner"] = partnerInfo
		}
		s.wsHub.Publish(payload)
	}

	return &model.ScannedView{
		Product:     *product,
		PartnerInfo: partnerInfo,
	}, nil
}
