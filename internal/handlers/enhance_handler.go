package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lumina-app/lumina-backend/internal/dto"
	"github.com/lumina-app/lumina-backend/internal/middleware"
	"github.com/lumina-app/lumina-backend/internal/services"
)

type EnhanceHandler struct {
	enhanceService *services.EnhanceService
	authService    *services.AuthService
}

func NewEnhanceHandler(enhanceService *services.EnhanceService, authService *services.AuthService) *EnhanceHandler {
	return &EnhanceHandler{enhanceService: enhanceService, authService: authService}
}

// Enhance runs the chosen AI tool on a photo the caller owns and returns the
// resulting image URL. Free and weekly plans get a watermarked copy.
func (h *EnhanceHandler) Enhance(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.EnhanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.ImageURL == "" || req.Tool == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "imageUrl and tool are required",
		})
	}

	if req.PhotoID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "photoId is required",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	output, err := h.enhanceService.Enhance(c.Context(), user, req.PhotoID, req.ImageURL, req.Tool)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTool):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown enhancement tool",
			})
		case errors.Is(err, services.ErrToolRestricted):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "This tool requires a monthly or yearly subscription",
			})
		case errors.Is(err, services.ErrPhotoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Photo not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Enhancement failed",
			})
		}
	}

	return c.JSON(dto.EnhanceResponse{Output: output})
}
