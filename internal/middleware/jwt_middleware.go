package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"comandero/internal/services"
)

// CookieName is the session cookie the token travels in; a Bearer
// Authorization header is accepted equally.
const CookieName = "token"

const (
	claimsKey = "claims"
	tokenKey  = "rawToken"
)

// AuthRequired validates the session token and stores its claims in the
// request context for subsequent handlers.
func AuthRequired(session *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "missing authentication token",
			})
		}

		claims, err := session.Validate(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "invalid or expired token",
			})
		}

		c.Locals(claimsKey, claims)
		c.Locals(tokenKey, tokenString)
		return c.Next()
	}
}

// RestaurantRequired rejects tokens that authenticate identity only.
// Must run after AuthRequired.
func RestaurantRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "missing authentication token",
			})
		}
		if claims.Restaurant == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "not logged into a restaurant",
			})
		}
		return c.Next()
	}
}

// Claims returns the validated claims stored by AuthRequired, or nil.
func Claims(c *fiber.Ctx) *services.TokenClaims {
	claims, _ := c.Locals(claimsKey).(*services.TokenClaims)
	return claims
}

// Token returns the raw token string the request presented.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}

func tokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(CookieName)
}
