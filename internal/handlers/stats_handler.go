package handlers

import (
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/services"
)

// StatsHandler handles HTTP requests for order statistics.
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// RegisterTenantRoutes registers the routes that require a restaurant
// claim.
func (h *StatsHandler) RegisterTenantRoutes(router fiber.Router) {
	router.Get("/stats/most-sold", h.HandleMostSold)
}

// HandleMostSold returns the restaurant's best-selling item.
func (h *StatsHandler) HandleMostSold(c *fiber.Ctx) error {
	item, err := h.stats.MostSold(middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}
