package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo processing states. A photo only ever moves
// processing -> ready or processing -> failed.
const (
	PhotoProcessing = "processing"
	PhotoReady      = "ready"
	PhotoFailed     = "failed"
)

// Enhancement tools.
const (
	ToolUpscale  = "upscale"
	ToolRestore  = "restore"
	ToolEdit     = "edit"
	ToolLowlight = "lowlight"
)

type Photo struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CloudinaryURL    string    `gorm:"type:text;not null" json:"cloudinary_url"`
	EnhancedURL      *string   `gorm:"type:text" json:"enhanced_url"`
	Status           string    `gorm:"size:20;not null;default:'processing';index" json:"status"`
	RecommendedTool  *string   `gorm:"size:50" json:"recommended_tool"`
	Tags             []string  `gorm:"type:jsonb;serializer:json" json:"tags"`
	ProcessingTimeMs *int      `json:"processing_time_ms,omitempty"`
	QualityScore     *float64  `json:"quality_score,omitempty"`
	UserRating       int       `gorm:"not null;default:0" json:"user_rating"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Photo) TableName() string {
	return "photos"
}
