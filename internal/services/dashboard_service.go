package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/cache"
	"fintrack/internal/dashboard"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// dashboardService computes monthly dashboard aggregates.
type dashboardService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewDashboardService creates a new DashboardServicer. The cache may
// be nil, which disables the read-through layer.
func NewDashboardService(db *gorm.DB, c *cache.Cache) DashboardServicer {
	return &dashboardService{db: db, cache: c}
}

// GetStats aggregates the user's dashboard for one month. The whole
// transaction history is loaded because the running balance and the
// previous month's comparison both reach outside the target month.
func (s *dashboardService) GetStats(ctx context.Context, userID string, year int, month time.Month) (*dashboard.PeriodStats, error) {
	if year < 1970 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year out of range")
	}
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	if stats, ok := s.cache.GetStats(ctx, userID, year, int(month)); ok {
		return stats, nil
	}

	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var profile *models.Profile
	var p models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	switch {
	case err == nil:
		profile = &p
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := dashboard.Aggregate(txs, year, month, profile, categories)
	s.cache.SetStats(ctx, userID, stats)
	return stats, nil
}
