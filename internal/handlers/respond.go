package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"comandero/internal/apperrors"
	"comandero/internal/middleware"
	"comandero/internal/services"
)

// respondError maps a core failure to its status code and fixed
// message. Anything outside the taxonomy becomes an opaque 500; causes,
// SQL text and internal identifiers never reach the client.
func respondError(c *fiber.Ctx, err error) error {
	var apiErr *apperrors.Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.StatusCode()).JSON(fiber.Map{
			"message": apiErr.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

// validationError renders a per-field validation failure report.
func validationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// setSessionToken attaches a freshly issued token to the response, as
// an http-only strict-same-site cookie and mirrored in the
// Authorization header.
func setSessionToken(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	c.Set(fiber.HeaderAuthorization, "Bearer "+token)
}

// clearSessionToken expires the session cookie.
func clearSessionToken(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
}

// restaurantIDOf extracts the restaurant public id from a claim so a
// refreshed token keeps the holder's tenant context.
func restaurantIDOf(claims *services.TokenClaims) *string {
	if claims == nil || claims.Restaurant == nil {
		return nil
	}
	id := claims.Restaurant.ID
	return &id
}
