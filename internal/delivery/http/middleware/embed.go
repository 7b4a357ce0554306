package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Embed - разрешает встраивание виджета в iframe только на указанных сайтах
func Embed(frameAncestors []string) fiber.Handler {
	csp := "frame-ancestors " + strings.Join(frameAncestors, " ")
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentSecurityPolicy, csp)
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		return c.Next()
	}
}
