package repository

import (
	"time"

	"ubt-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByQRCode(code string) (*model.Product, error)
	FindByPartnerID(partnerID uuid.UUID) ([]model.Product, error)
	UpdateCondition(id uuid.UUID, condition model.ProductCondition) error
	MarkScanned(id uuid.UUID, scannedBy string, scannedAt time.Time) error
	CountByStatus(status model.ProductStatus) (int64, error)
	CountByCondition(condition model.ProductCondition) (int64, error)
	Count() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Partner").Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByQRCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "qr_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByPartnerID(partnerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("partner_id = ?", partnerID).Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateCondition(id uuid.UUID, condition model.ProductCondition) error {
	result := r.db.Model(&model.Product{}).Where("id = ?", id).Update("condition", condition)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkScanned re-stamps scanned_at/scanned_by on every call. Concurrent scans
// of the same code are last-write-wins.
func (r *productRepo) MarkScanned(id uuid.UUID, scannedBy string, scannedAt time.Time) error {
	result := r.db.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     model.StatusScanned,
		"scanned_at": scannedAt,
		"scanned_by": scannedBy,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountByStatus(status model.ProductStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *productRepo) CountByCondition(condition model.ProductCondition) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("condition = ?", condition).Count(&count).Error
	return count, err
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}
