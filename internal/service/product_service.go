package service

import (
	"errors"
	"fmt"
	"time"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/qr"
	"ubt-tracker/internal/repository"
	"ubt-tracker/internal/ws"
	"ubt-tracker/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateBatch(req *CreateBatchRequest, createdBy string) (*BatchResult, error)
	GetAll() ([]model.Product, error)
	GetByID(id uuid.UUID) (*model.Product, error)
	GetByPartnerID(partnerID uuid.UUID) ([]model.Product, error)
	UpdateCondition(id uuid.UUID, condition model.ProductCondition) (*model.Product, error)
}

type CreateBatchRequest struct {
	PartnerID         uuid.UUID `json:"partner_id" validate:"uuid_required"`
	BatchNumber       string    `json:"batch_number" validate:"required"`
	ManufacturingDate string    `json:"manufacturing_date" validate:"required"`
	ExpiryDate        string    `json:"expiry_date" validate:"required"`
	Quantity          int       `json:"quantity" validate:"required,min=1,max=100"`
}

// BatchResult reports how many units were actually persisted. Batch creation
// is N independent inserts, a mid-batch failure leaves the partial batch in
// place and the count tells the caller how far it got.
type BatchResult struct {
	Requested int             `json:"requested"`
	Created   int             `json:"created"`
	Products  []model.Product `json:"products"`
}

type productService struct {
	productRepo repository.ProductRepository
	partnerRepo repository.PartnerRepository
	wsHub       *ws.Hub
}

func NewProductService(productRepo repository.ProductRepository, partnerRepo repository.PartnerRepository, hub *ws.Hub) ProductService {
	return &productService{
		productRepo: productRepo,
		partnerRepo: partnerRepo,
		wsHub:       hub,
	}
}

// parseDate accepts the date-only form used by the admin form, falling back
// to full RFC3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (s *productService) CreateBatch(req *CreateBatchRequest, createdBy string) (*BatchResult, error) {
	// 1. Validasi struct dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	manufacturingDate, err := parseDate(req.ManufacturingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid manufacturing_date", ErrValidation)
	}
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expiry_date", ErrValidation)
	}
	if expiryDate.Before(manufacturingDate) {
		return nil, fmt.Errorf("%w: expiry_date must not be before manufacturing_date", ErrValidation)
	}

	// 2. Partner must exist before any unit is minted
	partner, err := s.partnerRepo.FindByID(req.PartnerID)
	if err != nil {
		return nil, ErrPartnerNotFound
	}

	// 3. Mint and persist N independent units
	result := &BatchResult{
		Requested: req.Quantity,
		Products:  make([]model.Product, 0, req.Quantity),
	}

	for i := 0; i < req.Quantity; i++ {
		product := model.Product{
			QRCode:            qr.NewCode(),
			PartnerID:         partner.ID,
			BatchNumber:       req.BatchNumber,
			ManufacturingDate: manufacturingDate,
			ExpiryDate:        expiryDate,
			Status:            model.StatusActive,
			Condition:         model.ConditionTerkirim,
		}

		if err := s.productRepo.Create(&product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return result, fmt.Errorf("%w: %s", ErrDuplicateQRCode, product.QRCode)
			}
			return result, err
		}

		result.Created++
		result.Products = append(result.Products, product)
	}

	// 4. Broadcast ke dashboard feed
	if s.wsHub != nil {
		s.wsHub.Publish(map[string]interface{}{
			"type":         "batch_created",
			"partner_id":   partner.ID,
			"partner_name": partner.Name,
			"batch_number": req.BatchNumber,
			"quantity":     result.Created,
			"created_by":   createdBy,
		})
	}

	return result, nil
}

func (s *productService) GetAll() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) GetByPartnerID(partnerID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindByPartnerID(partnerID)
}

// UpdateCondition mutates the condition axis regardless of the current status.
// Condition changes never touch the status axis.
func (s *productService) UpdateCondition(id uuid.UUID, condition model.ProductCondition) (*model.Product, error) {
	if !model.ValidCondition(condition) {
		return nil, fmt.Errorf("%w: condition must be one of terkirim, terpakai, rusak", ErrValidation)
	}

	if err := s.productRepo.UpdateCondition(id, condition); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if s.wsHub != nil {
		s.wsHub.Publish(map[string]interface{}{
			"type":       "condition_updated",
			"product_id": product.ID,
			"qr_code":    product.QRCode,
			"condition":  product.Condition,
		})
	}

	return product, nil
}
