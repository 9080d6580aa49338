package repository

import (
	"fmt"

	"gorm.io/gorm"

	"agriguard/internal/model"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) Create(scan *model.Scan) error {
	if err := r.db.Create(scan).Error; err != nil {
		return fmt.Errorf("create scan failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's scans newest first.
func (r *ScanRepository) ListByUserID(userID uint, skip, limit int) ([]model.Scan, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var scans []model.Scan
	if err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Offset(skip).
		Limit(limit).
		Find(&scans).Error; err != nil {
		return nil, fmt.Errorf("list scans failed: %w", err)
	}
	return scans, nil
}
