package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth providers.
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderApple    = "apple"
)

// Subscription tiers.
const (
	TierFree    = "free"
	TierWeekly  = "weekly"
	TierMonthly = "monthly"
	TierYearly  = "yearly"
)

type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email            string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password         string         `gorm:"size:255" json:"-"`
	Name             string         `gorm:"size:255;default:'User'" json:"name"`
	Provider         string         `gorm:"size:50;not null;default:'local'" json:"provider"`
	ProviderID       string         `gorm:"size:255;index" json:"-"`
	SubscriptionTier string         `gorm:"size:50;not null;default:'free'" json:"subscription_tier"`
	PhotosUploaded   int            `gorm:"not null;default:0" json:"photos_uploaded"`
	IsAdmin          bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidTier reports whether s is a recognized subscription tier.
func ValidTier(s string) bool {
	switch s {
	case TierFree, TierWeekly, TierMonthly, TierYearly:
		return true
	}
	return false
}

// UploadCeiling returns the tier's upload quota; -1 means unbounded.
func UploadCeiling(tier string) int {
	switch tier {
	case TierMonthly:
		return 20
	case TierYearly:
		return -1
	default: // free, weekly
		return 15
	}
}
