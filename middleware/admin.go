package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"neshama/config"
	"neshama/utils"
)

// RequireAdminKey protects the campaign trigger and report endpoints with a
// static API key passed in the X-API-Key header.
func RequireAdminKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		expected := config.AppConfig.AdminAPIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			utils.LogEvent("admin_auth_failed", map[string]interface{}{
				"endpoint": c.Path(),
				"ip":       c.IP(),
			})
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or missing API key", nil)
		}
		return c.Next()
	}
}
