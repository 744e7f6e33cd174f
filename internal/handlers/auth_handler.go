package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/middleware"
	"comandero/internal/services"
)

// AuthHandler handles HTTP requests for identity: registration, login
// and account lifecycle.
type AuthHandler struct {
	auth     *services.AuthService
	session  *services.SessionService
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService, session *services.SessionService) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		session:  session,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *AuthHandler) RegisterPublicRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the routes that require identity.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/me", h.HandleMe)
	authRoutes.Patch("/me", h.HandleUpdateMe)
	authRoutes.Delete("/me", h.HandleDeleteMe)
	authRoutes.Post("/rotate", h.HandleRotate)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// HandleRegister creates a new employee account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	id, err := h.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and issues an identity-only session
// token. Logging into a restaurant is a separate step.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	id, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, claim, err := h.session.Refresh(id, nil)
	if err != nil {
		return respondError(c, err)
	}
	setSessionToken(c, token)
	return c.JSON(claim)
}

// HandleMe returns the authenticated employee's own record.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	employee, err := h.auth.Get(claims.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employee)
}

// UpdateMeRequest represents a partial credentials update.
type UpdateMeRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// HandleUpdateMe updates the caller's credentials, revokes the
// presenting token and issues a superseding one.
func (h *AuthHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Username == nil && req.Email == nil && req.Password == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "nothing to update",
		})
	}

	claims := middleware.Claims(c)
	err := h.auth.UpdateCredentials(claims.ID, services.CredentialsUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	if err := h.session.Revoke(c.Context(), claims); err != nil {
		return respondError(c, err)
	}
	token, claim, err := h.session.Refresh(claims.ID, restaurantIDOf(claims))
	if err != nil {
		return respondError(c, err)
	}
	setSessionToken(c, token)
	return c.JSON(claim)
}

// HandleRotate replaces the caller's public id, invalidating the old
// one, and issues a token carrying the new identity.
func (h *AuthHandler) HandleRotate(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	newID, err := h.auth.RotateID(claims.ID)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.session.Revoke(c.Context(), claims); err != nil {
		return respondError(c, err)
	}
	token, claim, err := h.session.Refresh(newID, restaurantIDOf(claims))
	if err != nil {
		return respondError(c, err)
	}
	setSessionToken(c, token)
	return c.JSON(claim)
}

// DeleteMeRequest re-verifies the credentials before deletion.
type DeleteMeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleDeleteMe deletes the account after re-verifying credentials.
func (h *AuthHandler) HandleDeleteMe(c *fiber.Ctx) error {
	var req DeleteMeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.auth.Delete(req.Email, req.Password); err != nil {
		return respondError(c, err)
	}

	if err := h.session.Revoke(c.Context(), middleware.Claims(c)); err != nil {
		return respondError(c, err)
	}
	clearSessionToken(c)
	return c.JSON(fiber.Map{"message": "account deleted"})
}
