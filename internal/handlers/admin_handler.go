package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lumina-app/lumina-backend/internal/dto"
	"github.com/lumina-app/lumina-backend/internal/services"
)

type AdminHandler struct {
	statsService *services.StatsService
}

func NewAdminHandler(statsService *services.StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

// Stats returns platform-wide aggregates for the admin dashboard.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.statsService.Stats()
	if err != nil {
		slog.Error("failed to compute admin stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute stats",
		})
	}
	return c.JSON(stats)
}

// Users lists every account with tier and upload counters.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.statsService.Users()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}
	return c.JSON(dto.AdminUsersResponse{Users: users})
}
