package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/models"
	"comandero/internal/services"
	"comandero/pkg/publicid"
)

// CommandaHandler handles HTTP requests for customer tabs.
type CommandaHandler struct {
	commandas *services.CommandaService
	validate  *validator.Validate
}

// NewCommandaHandler creates a new CommandaHandler.
func NewCommandaHandler(commandas *services.CommandaService) *CommandaHandler {
	return &CommandaHandler{
		commandas: commandas,
		validate:  validator.New(),
	}
}

// RegisterTenantRoutes registers the routes that require a restaurant
// claim.
func (h *CommandaHandler) RegisterTenantRoutes(router fiber.Router) {
	commandaRoutes := router.Group("/commandas")
	commandaRoutes.Post("/", h.HandleCreate)
	commandaRoutes.Get("/", h.HandleList)
	commandaRoutes.Get("/:id", h.HandleGet)
	commandaRoutes.Get("/:id/orders", h.HandleListOrders)
	commandaRoutes.Delete("/:id", h.HandleDelete)
}

// getOwned resolves a commanda and checks it belongs to the caller's
// restaurant. On failure the response has already been written and the
// commanda is nil.
func (h *CommandaHandler) getOwned(c *fiber.Ctx) (*models.CommandaDetail, error) {
	id := c.Params("id")
	if !publicid.Valid(id) {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid public id",
		})
	}

	commanda, err := h.commandas.Get(id)
	if err != nil {
		return nil, respondError(c, err)
	}
	if commanda.RestaurantID != middleware.Claims(c).Restaurant.ID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "you don't have access to this commanda",
		})
	}
	return commanda, nil
}

// CreateCommandaRequest represents the request body for opening a tab.
type CreateCommandaRequest struct {
	Customer string `json:"customer" validate:"required,min=1,max=255"`
	Table    *int   `json:"table" validate:"omitempty,min=1,max=255"`
}

// HandleCreate opens a tab at the caller's restaurant.
func (h *CommandaHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateCommandaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	id, err := h.commandas.Create(services.CommandaCreate{
		CustomerName: req.Customer,
		TableNumber:  req.Table,
	}, middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleList returns the restaurant's open tabs.
func (h *CommandaHandler) HandleList(c *fiber.Ctx) error {
	commandas, err := h.commandas.List(middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(commandas)
}

// HandleGet returns a single commanda.
func (h *CommandaHandler) HandleGet(c *fiber.Ctx) error {
	commanda, err := h.getOwned(c)
	if commanda == nil {
		return err
	}
	return c.JSON(commanda)
}

// HandleListOrders returns the commanda's order lines.
func (h *CommandaHandler) HandleListOrders(c *fiber.Ctx) error {
	commanda, err := h.getOwned(c)
	if commanda == nil {
		return err
	}

	orders, err := h.commandas.ListOrders(commanda.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleDelete closes a commanda. Its order lines go with it.
func (h *CommandaHandler) HandleDelete(c *fiber.Ctx) error {
	commanda, err := h.getOwned(c)
	if commanda == nil {
		return err
	}

	if err := h.commandas.Delete(commanda.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "commanda deleted"})
}
