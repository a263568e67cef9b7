package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskpilot/models"
	"taskpilot/store"
	"taskpilot/utils"
)

// Protected authenticates the bearer token and resolves the current
// user. A malformed or expired token and a valid token whose user no
// longer exists produce the same response, so a caller cannot tell the
// cases apart.
func Protected(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return unauthorized(c)
		}

		claims, err := utils.ParseJWTToken(tokenParts[1])
		if err != nil || claims.UserID == "" {
			return unauthorized(c)
		}

		user, err := s.UserByID(c.Context(), claims.UserID)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Could not validate credentials",
	})
}

// CurrentUser returns the user resolved by Protected. Only valid on
// routes behind it.
func CurrentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}
