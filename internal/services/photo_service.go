package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumina-app/lumina-backend/internal/models"
	"github.com/lumina-app/lumina-backend/internal/storage"
	"github.com/lumina-app/lumina-backend/internal/workers"
)

var (
	ErrQuotaExceeded = errors.New("upload limit reached for your plan")
	ErrPhotoNotFound = errors.New("photo not found")
	ErrInvalidRating = errors.New("rating must be 1 or -1")
)

// MaxUploadBytes caps a single uploaded image at 10 MiB.
const MaxUploadBytes = 10 * 1024 * 1024

type PhotoService struct {
	db       *gorm.DB
	store    storage.ObjectStore
	analyzer *workers.Analyzer
}

func NewPhotoService(db *gorm.DB, store storage.ObjectStore, analyzer *workers.Analyzer) *PhotoService {
	return &PhotoService{db: db, store: store, analyzer: analyzer}
}

// SetAnalyzer breaks the construction cycle: the analyzer persists results
// through this service, and this service enqueues work on the analyzer. Call
// once during startup, before the service handles requests.
func (s *PhotoService) SetAnalyzer(analyzer *workers.Analyzer) {
	s.analyzer = analyzer
}

// Submit runs the synchronous phase of the upload pipeline: reserve a quota
// slot, push the bytes to the object store, insert the photo row, and
// schedule analysis. It returns as soon as the row exists; analysis runs in
// the background.
func (s *PhotoService) Submit(ctx context.Context, userID uuid.UUID, image io.Reader) (*models.Photo, error) {
	if err := s.reserveUploadSlot(userID); err != nil {
		return nil, err
	}

	url, err := s.store.UploadImage(ctx, image)
	if err != nil {
		s.releaseUploadSlot(userID)
		return nil, fmt.Errorf("object store upload failed: %w", err)
	}

	photo := models.Photo{
		ID:            uuid.New(),
		UserID:        userID,
		CloudinaryURL: url,
		Status:        models.PhotoProcessing,
	}
	if err := s.db.Create(&photo).Error; err != nil {
		s.releaseUploadSlot(userID)
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	if err := s.analyzer.Enqueue(workers.Job{PhotoID: photo.ID, ImageURL: url}); err != nil {
		// The photo exists and the upload is durable; the user just won't
		// get a recommendation. Surface it via the status the client polls.
		slog.Error("failed to enqueue analysis", "photo_id", photo.ID.String(), "error", err)
		if ferr := s.FailAnalysis(photo.ID); ferr != nil {
			slog.Error("failed to mark photo failed", "photo_id", photo.ID.String(), "error", ferr)
		}
		photo.Status = models.PhotoFailed
	}

	return &photo, nil
}

// reserveUploadSlot atomically checks the tier ceiling and increments the
// upload counter in one statement, so two concurrent uploads cannot both
// squeeze past the limit.
func (s *PhotoService) reserveUploadSlot(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}

	ceiling := models.UploadCeiling(user.SubscriptionTier)
	if ceiling < 0 {
		return s.db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("photos_uploaded", gorm.Expr("photos_uploaded + 1")).Error
	}

	res := s.db.Model(&models.User{}).
		Where("id = ? AND photos_uploaded < ?", userID, ceiling).
		Update("photos_uploaded", gorm.Expr("photos_uploaded + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// releaseUploadSlot compensates a reserved slot when the synchronous phase
// aborts before a photo row exists.
func (s *PhotoService) releaseUploadSlot(userID uuid.UUID) {
	err := s.db.Model(&models.User{}).
		Where("id = ? AND photos_uploaded > 0", userID).
		Update("photos_uploaded", gorm.Expr("photos_uploaded - 1")).Error
	if err != nil {
		slog.Error("failed to release upload slot", "user_id", userID.String(), "error", err)
	}
}

// GetOwned fetches a photo only if it belongs to the caller. Missing and
// not-owned are indistinguishable by design.
func (s *PhotoService) GetOwned(userID, photoID uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.Where("id = ? AND user_id = ?", photoID, userID).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// List returns the caller's photos, most recent first.
func (s *PhotoService) List(userID uuid.UUID) ([]models.Photo, error) {
	var photos []models.Photo
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&photos).Error
	return photos, err
}

// Rate stores a thumbs up (+1) or down (-1) for an owned photo.
func (s *PhotoService) Rate(userID, photoID uuid.UUID, rating int) error {
	if rating != 1 && rating != -1 {
		return ErrInvalidRating
	}
	res := s.db.Model(&models.Photo{}).
		Where("id = ? AND user_id = ?", photoID, userID).
		Update("user_rating", rating)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

// SetEnhancedURL persists an enhancement output. Status is untouched:
// enhancement is orthogonal to the analysis state machine.
func (s *PhotoService) SetEnhancedURL(photoID uuid.UUID, url string) error {
	return s.db.Model(&models.Photo{}).
		Where("id = ?", photoID).
		Update("enhanced_url", url).Error
}

// CompleteAnalysis implements workers.PhotoStore. The status guard keeps
// terminal states terminal.
func (s *PhotoService) CompleteAnalysis(photoID uuid.UUID, tool string, tags []string, latencyMs int) error {
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	return s.db.Model(&models.Photo{}).
		Where("id = ? AND status = ?", photoID, models.PhotoProcessing).
		Updates(map[string]interface{}{
			"status":             models.PhotoReady,
			"recommended_tool":   tool,
			"tags":               datatypes.JSON(rawTags),
			"processing_time_ms": latencyMs,
		}).Error
}

// FailAnalysis implements workers.PhotoStore.
func (s *PhotoService) FailAnalysis(photoID uuid.UUID) error {
	return s.db.Model(&models.Photo{}).
		Where("id = ? AND status = ?", photoID, models.PhotoProcessing).
		Update("status", models.PhotoFailed).Error
}
