package repository

import (
	"time"

	"ubt-tracker/internal/model"

	"gorm.io/gorm"
)

type ScanLogRepository interface {
	Create(entry *model.ScanLog) error
	FindRecent(limit int) ([]model.ScanLog, error)
	CountSince(since time.Time) (int64, error)
}

type scanLogRepo struct {
	db *gorm.DB
}

func NewScanLogRepo(db *gorm.DB) ScanLogRepository {
	return &scanLogRepo{db}
}

func (r *scanLogRepo) Create(entry *model.ScanLog) error {
	return r.db.Create(entry).Error
}

func (r *scanLogRepo) FindRecent(limit int) ([]model.ScanLog, error) {
	var entries []model.ScanLog
	err := r.db.Preload("Product").Preload("User").
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *scanLogRepo) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ScanLog{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
