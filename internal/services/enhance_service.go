package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumina-app/lumina-backend/internal/inference"
	"github.com/lumina-app/lumina-backend/internal/models"
	"github.com/lumina-app/lumina-backend/internal/storage"
)

var (
	ErrUnknownTool    = errors.New("unknown enhancement tool")
	ErrToolRestricted = errors.New("this tool requires a Monthly or Yearly plan")
)

// Enhancement model versions, pinned.
const (
	upscaleModel = "nightmareai/real-esrgan:42fed1c4974146d4d2414e2be2c5277c7fcf05fcc3a73abf41610695738c1d7b"
	restoreModel = "tencentarc/gfpgan:9283608cc6b7be6b65a8e44983db012355fde4132009bf99d976b2f0896856a3"
	editModel    = "timothybrooks/instruct-pix2pix:30c1d0b916a6f8efce20493f5d61ee27491ab2a60437c13c588468b9810ec23f"

	editPrompt = "enhance this photo, improve lighting, sharpness and color balance"
)

// RouteTool maps a tool to its model and input payload.
func RouteTool(tool, imageURL string) (string, map[string]interface{}, error) {
	switch tool {
	case models.ToolUpscale:
		return upscaleModel, map[string]interface{}{"image": imageURL, "scale": 2}, nil
	case models.ToolRestore:
		return restoreModel, map[string]interface{}{"img": imageURL, "scale": 2}, nil
	case models.ToolEdit:
		return editModel, map[string]interface{}{"image": imageURL, "prompt": editPrompt}, nil
	default:
		return "", nil, ErrUnknownTool
	}
}

// TierAllowsTool gates enhancement tools by subscription tier: free and
// weekly plans only get upscale.
func TierAllowsTool(tier, tool string) bool {
	if tier == models.TierMonthly || tier == models.TierYearly {
		return true
	}
	return tool == models.ToolUpscale
}

// WatermarkRequired reports whether a tier's outputs get the watermark pass.
func WatermarkRequired(tier string) bool {
	return tier == models.TierFree || tier == models.TierWeekly
}

// PhotoWriter is the slice of photo persistence enhancement needs.
type PhotoWriter interface {
	GetOwned(userID, photoID uuid.UUID) (*models.Photo, error)
	SetEnhancedURL(photoID uuid.UUID, url string) error
}

type EnhanceService struct {
	photos  PhotoWriter
	store   storage.ObjectStore
	engine  inference.Engine
	timeout time.Duration
}

func NewEnhanceService(photos PhotoWriter, store storage.ObjectStore, engine inference.Engine, timeout time.Duration) *EnhanceService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &EnhanceService{photos: photos, store: store, engine: engine, timeout: timeout}
}

// Enhance invokes the tool's model on the image and returns the output URL.
// Free/weekly outputs pass through the watermark transformation; if that
// step fails the raw output is returned instead, degraded rather than failed.
// The result is always persisted to the photo's enhanced_url; status is
// never touched.
func (s *EnhanceService) Enhance(ctx context.Context, user *models.User, photoID uuid.UUID, imageURL, tool string) (string, error) {
	if tool != models.ToolUpscale && tool != models.ToolRestore && tool != models.ToolEdit {
		return "", ErrUnknownTool
	}
	if !TierAllowsTool(user.SubscriptionTier, tool) {
		return "", ErrToolRestricted
	}

	photo, err := s.photos.GetOwned(user.ID, photoID)
	if err != nil {
		return "", err
	}

	model, input, err := RouteTool(tool, imageURL)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.engine.Run(runCtx, model, input)
	if err != nil {
		return "", fmt.Errorf("enhancement failed: %w", err)
	}

	output, err := inference.OutputString(raw)
	if err != nil {
		return "", fmt.Errorf("enhancement produced no output: %w", err)
	}

	if WatermarkRequired(user.SubscriptionTier) {
		watermarked, werr := s.store.UploadRemote(runCtx, output, storage.WatermarkTransformation)
		if werr != nil {
			slog.Warn("watermark pass failed, returning raw output",
				"photo_id", photo.ID.String(), "error", werr)
		} else {
			output = watermarked
		}
	}

	if err := s.photos.SetEnhancedURL(photo.ID, output); err != nil {
		return "", fmt.Errorf("failed to persist enhanced url: %w", err)
	}

	return output, nil
}
