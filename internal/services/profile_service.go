package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// profileService handles finance-profile business logic.
type profileService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewProfileService creates a new ProfileServicer. The cache may be
// nil; invalidation then becomes a no-op.
func NewProfileService(db *gorm.DB, c *cache.Cache) ProfileServicer {
	return &profileService{db: db, cache: c}
}

// GetProfile retrieves the user's profile.
func (s *profileService) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpsertProfile replaces the user's profile wholesale, creating it on
// first save. Omitted fields are cleared rather than preserved.
func (s *profileService) UpsertProfile(userID string, input ProfileInput) (*models.Profile, error) {
	if input.MonthlySalary < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly salary cannot be negative")
	}
	if err := validDayOfMonth(input.CreditCardClosingDay); err != nil {
		return nil, err
	}
	if err := validDayOfMonth(input.CreditCardDueDay); err != nil {
		return nil, err
	}

	var profile models.Profile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{UserID: userID}
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile.Name = input.Name
	profile.MonthlySalary = input.MonthlySalary
	profile.FinancialGoals = input.FinancialGoals
	profile.Bio = input.Bio
	profile.AvatarURL = input.AvatarURL
	profile.CreditCardClosingDay = input.CreditCardClosingDay
	profile.CreditCardDueDay = input.CreditCardDueDay

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.InvalidateUser(context.Background(), userID)
	return &profile, nil
}

func validDayOfMonth(day *int) error {
	if day != nil && (*day < 1 || *day > 31) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "day of month must be between 1 and 31")
	}
	return nil
}
