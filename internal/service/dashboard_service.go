package service

import (
	"time"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository"
)

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetRecentScans(limit int) ([]model.ScanLog, error)
}

// DashboardStats is the admin overview: both lifecycle axes broken down.
type DashboardStats struct {
	TotalPartners int64 `json:"total_partners"`
	TotalProducts int64 `json:"total_products"`
	ActiveUnits   int64 `json:"active_units"`
	ScannedUnits  int64 `json:"scanned_units"`
	RecalledUnits int64 `json:"recalled_units"`
	TerkirimUnits int64 `json:"terkirim_units"`
	TerpakaiUnits int64 `json:"terpakai_units"`
	RusakUnits    int64 `json:"rusak_units"`
	ScansToday    int64 `json:"scans_today"`
}

type dashboardService struct {
	partnerRepo repository.PartnerRepository
	productRepo repository.ProductRepository
	scanLogRepo repository.ScanLogRepository
}

func NewDashboardService(partnerRepo repository.PartnerRepository, productRepo repository.ProductRepository, scanLogRepo repository.ScanLogRepository) DashboardService {
	return &dashboardService{
		partnerRepo: partnerRepo,
		productRepo: productRepo,
		scanLogRepo: scanLogRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalPartners, err = s.partnerRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}
	if stats.ActiveUnits, err = s.productRepo.CountByStatus(model.StatusActive); err != nil {
		return nil, err
	}
	if stats.ScannedUnits, err = s.productRepo.CountByStatus(model.StatusScanned); err != nil {
		return nil, err
	}
	if stats.RecalledUnits, err = s.productRepo.CountByStatus(model.StatusRecalled); err != nil {
		return nil, err
	}
	if stats.TerkirimUnits, err = s.productRepo.CountByCondition(model.ConditionTerkirim); err != nil {
		return nil, err
	}
	if stats.TerpakaiUnits, err = s.productRepo.CountByCondition(model.ConditionTerpakai); err != nil {
		return nil, err
	}
	if stats.RusakUnits, err = s.productRepo.CountByCondition(model.ConditionRusak); err != nil {
		return nil, err
	}

	// Midnight in the server's timezone, not UTC; Truncate would shift the
	// day boundary for non-UTC deployments.
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.ScansToday, err = s.scanLogRepo.CountSince(startOfDay); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *dashboardService) GetRecentScans(limit int) ([]model.ScanLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.scanLogRepo.FindRecent(limit)
}
