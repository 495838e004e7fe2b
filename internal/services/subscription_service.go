package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumina-app/lumina-backend/internal/models"
)

var ErrInvalidTier = errors.New("invalid subscription tier")

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// ChangeTier switches the user's plan. Payment processing happens upstream;
// this only records the resulting tier.
func (s *SubscriptionService) ChangeTier(userID uuid.UUID, tier string) (string, error) {
	if !models.ValidTier(tier) {
		return "", ErrInvalidTier
	}

	res := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("subscription_tier", tier)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrUserNotFound
	}
	return tier, nil
}
