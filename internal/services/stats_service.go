package services

import (
	"database/sql"
	"math"

	"gorm.io/gorm"

	"github.com/lumina-app/lumina-backend/internal/dto"
	"github.com/lumina-app/lumina-backend/internal/models"
)

// StatsService computes the read-only admin rollups. Pure aggregation, no
// domain logic.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) Stats() (*dto.AdminStatsResponse, error) {
	stats := &dto.AdminStatsResponse{
		TierBreakdown: map[string]int64{
			models.TierFree: 0, models.TierWeekly: 0, models.TierMonthly: 0, models.TierYearly: 0,
		},
		ToolBreakdown: map[string]int64{
			models.ToolUpscale: 0, models.ToolRestore: 0, models.ToolEdit: 0, models.ToolLowlight: 0,
		},
		RecentPhotos: []dto.RecentPhotoEntry{},
	}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var tiers []bucket
	err := s.db.Model(&models.User{}).
		Select("subscription_tier AS key, COUNT(*) AS count").
		Group("subscription_tier").
		Scan(&tiers).Error
	if err != nil {
		return nil, err
	}
	for _, b := range tiers {
		stats.TierBreakdown[b.Key] = b.Count
	}

	if err := s.db.Model(&models.Photo{}).Count(&stats.TotalPhotos).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Photo{}).Where("enhanced_url IS NOT NULL").Count(&stats.TotalEnhanced).Error; err != nil {
		return nil, err
	}

	var tools []bucket
	err = s.db.Model(&models.Photo{}).
		Select("recommended_tool AS key, COUNT(*) AS count").
		Where("recommended_tool IS NOT NULL").
		Group("recommended_tool").
		Scan(&tools).Error
	if err != nil {
		return nil, err
	}
	for _, b := range tools {
		stats.ToolBreakdown[b.Key] = b.Count
	}

	var avgLatency float64
	err = s.db.Model(&models.Photo{}).
		Select("COALESCE(AVG(processing_time_ms), 0)").
		Where("processing_time_ms IS NOT NULL AND processing_time_ms > 0").
		Scan(&avgLatency).Error
	if err != nil {
		return nil, err
	}
	stats.AvgProcessingTime = int64(math.Round(avgLatency))

	var avgQuality sql.NullFloat64
	err = s.db.Model(&models.Photo{}).
		Select("AVG(quality_score)").
		Where("quality_score IS NOT NULL").
		Scan(&avgQuality).Error
	if err != nil {
		return nil, err
	}
	if avgQuality.Valid {
		stats.AvgQualityScore = &avgQuality.Float64
	}

	var rating struct {
		ThumbsUp int64
		Total    int64
	}
	err = s.db.Model(&models.Photo{}).
		Select("COALESCE(SUM(CASE WHEN user_rating = 1 THEN 1 ELSE 0 END), 0) AS thumbs_up, COUNT(*) AS total").
		Where("user_rating != 0").
		Scan(&rating).Error
	if err != nil {
		return nil, err
	}
	if rating.Total > 0 {
		stats.SatisfactionRate = int(math.Round(float64(rating.ThumbsUp) / float64(rating.Total) * 100))
	}

	err = s.db.Model(&models.Photo{}).
		Select("id, cloudinary_url, enhanced_url, recommended_tool, created_at").
		Order("created_at DESC").
		Limit(6).
		Scan(&stats.RecentPhotos).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *StatsService) Users() ([]dto.AdminUserEntry, error) {
	users := []dto.AdminUserEntry{}
	err := s.db.Model(&models.User{}).
		Select("id, name, email, provider, subscription_tier AS tier, photos_uploaded, created_at").
		Order("created_at DESC").
		Scan(&users).Error
	return users, err
}
