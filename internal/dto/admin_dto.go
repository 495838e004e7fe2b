package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminStatsResponse struct {
	TotalUsers        int64              `json:"totalUsers"`
	TotalPhotos       int64              `json:"totalPhotos"`
	TotalEnhanced     int64              `json:"totalEnhanced"`
	TierBreakdown     map[string]int64   `json:"tierBreakdown"`
	ToolBreakdown     map[string]int64   `json:"toolBreakdown"`
	AvgProcessingTime int64              `json:"avgProcessingTime"`
	AvgQualityScore   *float64           `json:"avgQualityScore"`
	SatisfactionRate  int                `json:"satisfactionRate"`
	RecentPhotos      []RecentPhotoEntry `json:"recentPhotos"`
}

type RecentPhotoEntry struct {
	ID              uuid.UUID `json:"id"`
	CloudinaryURL   string    `json:"cloudinary_url"`
	EnhancedURL     *string   `json:"enhanced_url"`
	RecommendedTool *string   `json:"recommended_tool"`
	CreatedAt       time.Time `json:"created_at"`
}

type AdminUserEntry struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Provider       string    `json:"provider"`
	Tier           string    `json:"tier"`
	PhotosUploaded int       `json:"photos_uploaded"`
	CreatedAt      time.Time `json:"created_at"`
}

type AdminUsersResponse struct {
	Users []AdminUserEntry `json:"users"`
}
