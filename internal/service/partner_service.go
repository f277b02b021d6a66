package service

import (
	"fmt"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository"
	"ubt-tracker/pkg/validator"

	"github.com/google/uuid"
)

type PartnerService interface {
	Create(req *PartnerRequest) (*model.Partner, error)
	Update(id uuid.UUID, req *PartnerRequest) (*model.Partner, error)
	Delete(id uuid.UUID) error
	GetAll() ([]PartnerWithProducts, error)
	GetByID(id uuid.UUID) (*PartnerWithProducts, error)
}

type PartnerRequest struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Province      string `json:"province" validate:"required,province"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	ContactPerson string `json:"contact_person" validate:"required"`
}

// PartnerWithProducts is the admin list view: partner plus its units.
type PartnerWithProducts struct {
	model.Partner
	ProductCount   int             `json:"product_count"`
	ProductDetails []model.Product `json:"product_details"`
}

type partnerService struct {
	partnerRepo repository.PartnerRepository
	productRepo repository.ProductRepository
}

func NewPartnerService(partnerRepo repository.PartnerRepository, productRepo repository.ProductRepository) PartnerService {
	return &partnerService{
		partnerRepo: partnerRepo,
		productRepo: productRepo,
	}
}

func (s *partnerService) Create(req *PartnerRequest) (*model.Partner, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	partner := &model.Partner{
		Name:          req.Name,
		Address:       req.Address,
		Province:      req.Province,
		Phone:         req.Phone,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		Active:        true,
	}

	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// Update replaces the editable contact/address fields only. Products hanging
// off the partner are untouched.
func (s *partnerService) Update(id uuid.UUID, req *PartnerRequest) (*model.Partner, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	partner, err := s.partnerRepo.FindByID(id)
	if err != nil {
		return nil, ErrPartnerNotFound
	}

	partner.Name = req.Name
	partner.Address = req.Address
	partner.Province = req.Province
	partner.Phone = req.Phone
	partner.Email = req.Email
	partner.ContactPerson = req.ContactPerson

	if err := s.partnerRepo.Update(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// Delete removes the partner and cascades to every product referencing it.
func (s *partnerService) Delete(id uuid.UUID) error {
	if _, err := s.partnerRepo.FindByID(id); err != nil {
		return ErrPartnerNotFound
	}
	return s.partnerRepo.DeleteCascade(id)
}

func (s *partnerService) GetAll() ([]PartnerWithProducts, error) {
	partners, err := s.partnerRepo.FindAll()
	if err != nil {
		return nil, err
	}

	result := make([]PartnerWithProducts, 0, len(partners))
	for _, partner := range partners {
		products, err := s.productRepo.FindByPartnerID(partner.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, PartnerWithProducts{
			Partner:        partner,
			ProductCount:   len(products),
			ProductDetails: products,
		})
	}
	return result, nil
}

func (s *partnerService) GetByID(id uuid.UUID) (*PartnerWithProducts, error) {
	partner, err := s.partnerRepo.FindByID(id)
	if err != nil {
		return nil, ErrPartnerNotFound
	}
	products, err := s.productRepo.FindByPartnerID(id)
	if err != nil {
		return nil, err
	}
	return &PartnerWithProducts{
		Partner:        *partner,
		ProductCount:   len(products),
		ProductDetails: products,
	}, nil
}
