package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/models"
	"comandero/internal/services"
	"comandero/pkg/publicid"
)

// RestaurantHandler handles HTTP requests for restaurants (tenants).
type RestaurantHandler struct {
	restaurants *services.RestaurantService
	session     *services.SessionService
	validate    *validator.Validate
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(restaurants *services.RestaurantService, session *services.SessionService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurants: restaurants,
		session:     session,
		validate:    validator.New(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *RestaurantHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/restaurants/:id", h.HandleGet)
}

// RegisterProtectedRoutes registers the routes that require identity.
func (h *RestaurantHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/restaurants", h.HandleCreate)
	router.Post("/restaurants/login", h.HandleLoginRestaurant)
}

// RegisterTenantRoutes registers the routes that require a restaurant
// claim.
func (h *RestaurantHandler) RegisterTenantRoutes(router fiber.Router) {
	router.Patch("/restaurants", h.HandleUpdate)
}

// HandleGet returns a restaurant's public record.
func (h *RestaurantHandler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	if !publicid.Valid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid public id",
		})
	}

	restaurant, err := h.restaurants.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(restaurant)
}

// CreateRestaurantRequest represents the request body for creating a
// restaurant.
type CreateRestaurantRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Address string `json:"address" validate:"required,max=255"`
}

// HandleCreate makes a restaurant with the caller as its first admin
// and logs the caller into it by re-issuing the session token.
func (h *RestaurantHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	claims := middleware.Claims(c)
	id, err := h.restaurants.Create(req.Name, req.Address, claims.ID)
	if err != nil {
		return respondError(c, err)
	}

	token, claim, err := h.session.Refresh(claims.ID, &id)
	if err != nil {
		return respondError(c, err)
	}
	setSessionToken(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "claim": claim})
}

// RestaurantLoginRequest selects the restaurant to work in.
type RestaurantLoginRequest struct {
	ID string `json:"id" validate:"required,len=16,alphanum"`
}

// HandleLoginRestaurant re-issues the session token with a restaurant
// claim. Fails Forbidden when the caller is not a member.
func (h *RestaurantHandler) HandleLoginRestaurant(c *fiber.Ctx) error {
	var req RestaurantLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	claims := middleware.Claims(c)
	token, claim, err := h.session.Refresh(claims.ID, &req.ID)
	if err != nil {
		return respondError(c, err)
	}
	setSessionToken(c, token)
	return c.JSON(claim)
}

// UpdateRestaurantRequest is a partial tenant metadata update.
type UpdateRestaurantRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=255"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

// HandleUpdate updates the caller's restaurant. Admins only.
func (h *RestaurantHandler) HandleUpdate(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims.Restaurant.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can update the restaurant",
		})
	}

	var req UpdateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Name == nil && req.Address == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "nothing to update",
		})
	}

	err := h.restaurants.Update(claims.Restaurant.ID, services.RestaurantUpdate{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "restaurant updated"})
}
