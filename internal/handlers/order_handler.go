package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/models"
	"comandero/internal/repositories"
	"comandero/internal/services"
	"comandero/pkg/publicid"
)

// OrderHandler handles HTTP requests for order lines.
type OrderHandler struct {
	orders    *services.OrderService
	commandas *services.CommandaService
	validate  *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, commandas *services.CommandaService) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		commandas: commandas,
		validate:  validator.New(),
	}
}

// RegisterTenantRoutes registers the routes that require a restaurant
// claim.
func (h *OrderHandler) RegisterTenantRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreate)
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Patch("/:id", h.HandleUpdate)
	orderRoutes.Delete("/:id", h.HandleDelete)
}

// getOwned resolves an order and checks it belongs to the caller's
// restaurant. On failure the response has already been written and the
// order is nil.
func (h *OrderHandler) getOwned(c *fiber.Ctx) (*models.OrderDetail, error) {
	id := c.Params("id")
	if !publicid.Valid(id) {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid public id",
		})
	}

	order, err := h.orders.Get(id)
	if err != nil {
		return nil, respondError(c, err)
	}
	if order.RestaurantID != middleware.Claims(c).Restaurant.ID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "you don't have access to this order",
		})
	}
	return order, nil
}

// CreateOrderRequest represents the request body for placing an order
// line. Absent fields take the defaults: quantity 1, priority low,
// status pending.
type CreateOrderRequest struct {
	CommandaID string                `json:"commandaId" validate:"required,len=16,alphanum"`
	ItemID     string                `json:"itemId" validate:"required,len=16,alphanum"`
	Quantity   *int                  `json:"quantity" validate:"omitempty,gt=0"`
	Priority   *models.OrderPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status     *models.OrderStatus   `json:"status" validate:"omitempty,oneof=pending in_progress done"`
	Notes      *string               `json:"notes" validate:"omitempty,max=255"`
}

// HandleCreate places an order line against a commanda. The item must
// belong to the same restaurant as the commanda.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	commanda, err := h.commandas.Get(req.CommandaID)
	if err != nil {
		return respondError(c, err)
	}
	if commanda.RestaurantID != middleware.Claims(c).Restaurant.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "you don't have access to this commanda",
		})
	}

	id, err := h.orders.Create(services.OrderCreateInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Priority: req.Priority,
		Status:   req.Status,
		Notes:    req.Notes,
	}, commanda.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// listOrdersQuery carries the list endpoint's query parameters.
type listOrdersQuery struct {
	OrderBy  string `query:"orderBy" validate:"omitempty,oneof=created_at priority status quantity"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
	Limit    int    `query:"limit" validate:"omitempty,gte=0"`
	Status   string `query:"status" validate:"omitempty,oneof=pending in_progress done"`
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high"`
}

// HandleList returns the restaurant's order lines, filterable by status
// and priority and sortable by a fixed set of columns.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	var q listOrdersQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid query parameters",
		})
	}
	if err := h.validate.Struct(q); err != nil {
		return validationError(c, err)
	}

	orders, err := h.orders.List(middleware.Claims(c).Restaurant.ID, repositories.OrderQuery{
		OrderBy:  q.OrderBy,
		Desc:     q.Order == "desc",
		Limit:    q.Limit,
		Status:   models.OrderStatus(q.Status),
		Priority: models.OrderPriority(q.Priority),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGet returns a single order line.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	order, err := h.getOwned(c)
	if order == nil {
		return err
	}
	return c.JSON(order)
}

// UpdateOrderRequest represents a partial order update.
type UpdateOrderRequest struct {
	Quantity *int                  `json:"quantity" validate:"omitempty,gt=0"`
	Priority *models.OrderPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status   *models.OrderStatus   `json:"status" validate:"omitempty,oneof=pending in_progress done"`
	Notes    *string               `json:"notes" validate:"omitempty,max=255"`
}

// HandleUpdate applies a partial update to an order line.
func (h *OrderHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Quantity == nil && req.Priority == nil && req.Status == nil && req.Notes == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "nothing to update",
		})
	}

	order, err := h.getOwned(c)
	if order == nil {
		return err
	}

	err = h.orders.Update(order.ID, services.OrderUpdateInput{
		Quantity: req.Quantity,
		Priority: req.Priority,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "order updated"})
}

// HandleDelete removes an order line.
func (h *OrderHandler) HandleDelete(c *fiber.Ctx) error {
	order, err := h.getOwned(c)
	if order == nil {
		return err
	}

	if err := h.orders.Delete(order.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "order deleted"})
}
