package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lumina-app/lumina-backend/internal/dto"
	"github.com/lumina-app/lumina-backend/internal/middleware"
	"github.com/lumina-app/lumina-backend/internal/services"
)

type PhotoHandler struct {
	photoService *services.PhotoService
}

func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Upload receives a multipart image, stores it and queues background
// analysis. Responds as soon as the original is safely uploaded; analysis
// results arrive through the status endpoint.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No image file provided",
		})
	}

	if fileHeader.Size > services.MaxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image exceeds the 10MB limit",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Only image files are accepted",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}
	defer file.Close()

	photo, err := h.photoService.Submit(c.Context(), userID, file)
	if err != nil {
		if errors.Is(err, services.ErrQuotaExceeded) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Upload limit reached for your plan",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Upload failed",
		})
	}

	return c.JSON(dto.UploadResponse{
		Success:  true,
		PhotoID:  photo.ID,
		ImageURL: photo.CloudinaryURL,
		Message:  "Upload successful, analysis in progress",
	})
}

// Status returns the analysis state of one photo. The frontend polls this
// until the status leaves "processing".
func (h *PhotoHandler) Status(c *fiber.Ctx) error {
	userID, photoID, ok := ownedPhotoParams(c)
	if !ok {
		return nil
	}

	photo, err := h.photoService.GetOwned(userID, photoID)
	if err != nil {
		return photoError(c, err)
	}

	return c.JSON(dto.PhotoStatusResponse{
		Status:          photo.Status,
		RecommendedTool: photo.RecommendedTool,
		Tags:            photo.Tags,
	})
}

func (h *PhotoHandler) Get(c *fiber.Ctx) error {
	userID, photoID, ok := ownedPhotoParams(c)
	if !ok {
		return nil
	}

	photo, err := h.photoService.GetOwned(userID, photoID)
	if err != nil {
		return photoError(c, err)
	}
	return c.JSON(photo)
}

func (h *PhotoHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	photos, err := h.photoService.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list photos",
		})
	}
	return c.JSON(photos)
}

// Rate records a thumbs up or down on an enhanced photo.
func (h *PhotoHandler) Rate(c *fiber.Ctx) error {
	userID, photoID, ok := ownedPhotoParams(c)
	if !ok {
		return nil
	}

	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.photoService.Rate(userID, photoID, req.Rating); err != nil {
		if errors.Is(err, services.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Rating must be 1 or -1",
			})
		}
		return photoError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ownedPhotoParams resolves the caller and the :id route parameter. On
// failure it writes the error response itself and reports ok=false.
func ownedPhotoParams(c *fiber.Ctx) (userID, photoID uuid.UUID, ok bool) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return uuid.Nil, uuid.Nil, false
	}

	photoID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid photo ID",
		})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, photoID, true
}

func photoError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrPhotoNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Photo not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
