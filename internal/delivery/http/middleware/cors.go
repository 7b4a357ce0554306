package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - виджет встраивается на сайты партнёров, список origins из конфига
func CORS(origins []string) fiber.Handler {
	allowOrigins := strings.Join(origins, ",")
	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Accept,Accept-Language",
		// credentials недопустимы с wildcard origin
		AllowCredentials: allowOrigins != "*",
		ExposeHeaders:    "X-Cache",
	})
}
