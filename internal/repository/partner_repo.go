package repository

import (
	"ubt-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnerRepository interface {
	Create(partner *model.Partner) error
	FindAll() ([]model.Partner, error)
	FindByID(id uuid.UUID) (*model.Partner, error)
	Update(partner *model.Partner) error
	DeleteCascade(id uuid.UUID) error
	Count() (int64, error)
}

type partnerRepo struct {
	db *gorm.DB
}

func NewPartnerRepo(db *gorm.DB) PartnerRepository {
	return &partnerRepo{db}
}

func (r *partnerRepo) Create(partner *model.Partner) error {
	return r.db.Create(partner).Error
}

func (r *partnerRepo) FindAll() ([]model.Partner, error) {
	var partners []model.Partner
	err := r.db.Order("created_at ASC").Find(&partners).Error
	return partners, err
}

func (r *partnerRepo) FindByID(id uuid.UUID) (*model.Partner, error) {
	var partner model.Partner
	if err := r.db.First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepo) Update(partner *model.Partner) error {
	return r.db.Save(partner).Error
}

// DeleteCascade removes the partner's products first, then the partner itself,
// inside one transaction. No orphan products may survive the delete.
func (r *partnerRepo) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("partner_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Partner{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *partnerRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Partner{}).Count(&count).Error
	return count, err
}
