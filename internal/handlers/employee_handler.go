package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/models"
	"comandero/internal/services"
	"comandero/pkg/publicid"
)

// EmployeeHandler handles HTTP requests for a restaurant's staff.
type EmployeeHandler struct {
	auth        *services.AuthService
	memberships *services.MembershipService
	session     *services.SessionService
	validate    *validator.Validate
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(auth *services.AuthService, memberships *services.MembershipService, session *services.SessionService) *EmployeeHandler {
	return &EmployeeHandler{
		auth:        auth,
		memberships: memberships,
		session:     session,
		validate:    validator.New(),
	}
}

// RegisterTenantRoutes registers the routes that require a restaurant
// claim.
func (h *EmployeeHandler) RegisterTenantRoutes(router fiber.Router) {
	employeeRoutes := router.Group("/employees")
	employeeRoutes.Get("/", h.HandleList)
	employeeRoutes.Get("/count", h.HandleCount)
	employeeRoutes.Post("/", h.HandleHire)
	employeeRoutes.Patch("/role", h.HandleSetRole)
	employeeRoutes.Patch("/promote", h.HandlePromote)
	employeeRoutes.Patch("/demote", h.HandleDemote)
	employeeRoutes.Get("/:id", h.HandleGet)
	employeeRoutes.Delete("/:id", h.HandleDismiss)
}

func requireAdmin(c *fiber.Ctx) bool {
	return middleware.Claims(c).Restaurant.Role == models.RoleAdmin
}

// HandleList returns the restaurant's members with their roles. Admins
// only.
func (h *EmployeeHandler) HandleList(c *fiber.Ctx) error {
	if !requireAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can list employees",
		})
	}

	members, err := h.memberships.ListMembers(middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(members)
}

// HandleCount returns the restaurant's member count. Admins only.
func (h *EmployeeHandler) HandleCount(c *fiber.Ctx) error {
	if !requireAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can list employees",
		})
	}

	count, err := h.memberships.CountMembers(middleware.Claims(c).Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// HireRequest represents the request body for adding a member.
type HireRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin employee"`
}

// HandleHire adds an existing account to the restaurant's staff. Admins
// only. Hiring the same employee twice fails Conflict.
func (h *EmployeeHandler) HandleHire(c *fiber.Ctx) error {
	if !requireAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can hire employees",
		})
	}

	var req HireRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	employee, err := h.auth.GetByUsername(req.Username)
	if err != nil {
		return respondError(c, err)
	}

	err = h.memberships.Add(employee.PublicID, middleware.Claims(c).Restaurant.ID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": employee.PublicID})
}

// HandleGet returns a member's record together with their role at this
// restaurant. Employees can look up themselves; admins can look up
// anyone on staff.
func (h *EmployeeHandler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	if !publicid.Valid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid public id",
		})
	}

	claims := middleware.Claims(c)
	if id != claims.ID && claims.Restaurant.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can look up other employees",
		})
	}

	role, err := h.memberships.RoleOf(id, claims.Restaurant.ID)
	if err != nil {
		return respondError(c, err)
	}
	employee, err := h.auth.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": employee, "role": role})
}

// HandleDismiss removes a member from the restaurant's staff. Admins
// can dismiss anyone, including the last admin; a non-admin can only
// leave on their own. The account itself survives.
func (h *EmployeeHandler) HandleDismiss(c *fiber.Ctx) error {
	id := c.Params("id")
	if !publicid.Valid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid public id",
		})
	}

	claims := middleware.Claims(c)
	if id != claims.ID && claims.Restaurant.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can dismiss other employees",
		})
	}

	if err := h.memberships.Remove(id, claims.Restaurant.ID); err != nil {
		return respondError(c, err)
	}

	// Leaving drops the restaurant claim from the caller's own token.
	if id == claims.ID {
		if err := h.session.Revoke(c.Context(), claims); err != nil {
			return respondError(c, err)
		}
		token, claim, err := h.session.Refresh(claims.ID, nil)
		if err != nil {
			return respondError(c, err)
		}
		setSessionToken(c, token)
		return c.JSON(claim)
	}
	return c.JSON(fiber.Map{"message": "employee dismissed"})
}

// SetRoleRequest represents the request body for a role change.
type SetRoleRequest struct {
	ID   string      `json:"id" validate:"required,len=16,alphanum"`
	Role models.Role `json:"role" validate:"required,oneof=admin employee"`
}

// HandleSetRole promotes or demotes a member. Admins only, including
// demoting themselves.
func (h *EmployeeHandler) HandleSetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	return h.applyRole(c, req.ID, req.Role)
}

// TargetRequest names a member by public id.
type TargetRequest struct {
	ID string `json:"id" validate:"required,len=16,alphanum"`
}

// HandlePromote makes a member an admin.
func (h *EmployeeHandler) HandlePromote(c *fiber.Ctx) error {
	var req TargetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	return h.applyRole(c, req.ID, models.RoleAdmin)
}

// HandleDemote strips a member's admin role. Demoting the last admin
// is allowed, like dismissing them.
func (h *EmployeeHandler) HandleDemote(c *fiber.Ctx) error {
	var req TargetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	return h.applyRole(c, req.ID, models.RoleEmployee)
}

func (h *EmployeeHandler) applyRole(c *fiber.Ctx, id string, role models.Role) error {
	if !requireAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "only admins can change roles",
		})
	}

	claims := middleware.Claims(c)
	if err := h.memberships.SetRole(id, claims.Restaurant.ID, role); err != nil {
		return respondError(c, err)
	}

	// A self role change must be reflected in the caller's token.
	if id == claims.ID {
		if err := h.session.Revoke(c.Context(), claims); err != nil {
			return respondError(c, err)
		}
		restaurantID := claims.Restaurant.ID
		token, claim, err := h.session.Refresh(claims.ID, &restaurantID)
		if err != nil {
			return respondError(c, err)
		}
		setSessionToken(c, token)
		return c.JSON(claim)
	}
	return c.JSON(fiber.Map{"message": "role updated"})
}
