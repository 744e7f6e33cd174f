package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/models"
	"comandero/internal/services"
	"comandero/pkg/publicid"
)

// ItemHandler handles HTTP requests for the restaurant's menu.
type ItemHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(catalog *services.CatalogService) *ItemHandler {
	return &ItemHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterTenantRoutes registers the routes that require a restaurant
// claim.
func (h *ItemHandler) RegisterTenantRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Post("/", h.HandleCreate)
	itemRoutes.Get("/", h.HandleList)
	itemRoutes.Get("/count", h.HandleCount)
	itemRoutes.Get("/:id", h.HandleGet)
	itemRoutes.Patch("/:id/availability", h.HandleSetAvailability)
	itemRoutes.Delete("/:id", h.HandleDelete)
}

// getOwned resolves an item and checks it belongs to the caller's
// restaurant. On failure the response has already been written and the
// item is nil.
func (h *ItemHandler) getOwned(c *fiber.Ctx) (*models.ItemDetail, error) {
	id := c.Params("id")
	if !publicid.Valid(id) {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid public id",
		})
	}

	item, err := h.catalog.Get(id)
	if err != nil {
		return nil, respondError(c, err)
	}
	if item.RestaurantID != middleware.Claims(c).Restaurant.ID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "you don't have access to this item",
		})
	}
	return item, nil
}

// CreateItemRequest represents the request body for a new menu item.
// Price is in the smallest currency unit; zero is legal (free items).
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Price       *int64  `json:"price" validate:"required,gte=0"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// HandleCreate adds an item to the menu. Admins only.
func (h *ItemHandler) HandleCreate(c *fiber.Ctx) error {
	if !requireAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can manage the menu",
		})
	}

	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	id, err := h.catalog.Create(services.ItemCreate{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
	}, middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleList returns the restaurant's menu. Unavailable items are
// hidden unless ?includeUnavailable=true.
func (h *ItemHandler) HandleList(c *fiber.Ctx) error {
	includeUnavailable := c.QueryBool("includeUnavailable")

	items, err := h.catalog.List(middleware.Claims(c).Restaurant.ID, includeUnavailable)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleCount returns the menu size, availability regardless.
func (h *ItemHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.catalog.Count(middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleGet returns a single menu item.
func (h *ItemHandler) HandleGet(c *fiber.Ctx) error {
	item, err := h.getOwned(c)
	if item == nil {
		return err
	}
	return c.JSON(item)
}

// SetAvailabilityRequest represents the request body for flipping an
// item's availability.
type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// HandleSetAvailability marks an item available or sold out. Any member
// may do this; waiters flip availability during service.
func (h *ItemHandler) HandleSetAvailability(c *fiber.Ctx) error {
	var req SetAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	item, err := h.getOwned(c)
	if item == nil {
		return err
	}
	if err := h.catalog.SetAvailability(item.ID, *req.Available); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "item updated"})
}

// HandleDelete removes an item from the menu. Admins only.
func (h *ItemHandler) HandleDelete(c *fiber.Ctx) error {
	if !requireAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can manage the menu",
		})
	}

	item, err := h.getOwned(c)
	if item == nil {
		return err
	}
	if err := h.catalog.Delete(item.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "item deleted"})
}
