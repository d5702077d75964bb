package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORS creates a CORS middleware restricted to the given origins. An empty
// list allows all origins.
func CORS(allowedOrigins []string) fiber.Handler {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")

		allowOrigin := ""
		switch {
		case len(originSet) == 0:
			allowOrigin = "*"
		case originSet[origin]:
			allowOrigin = origin
		default:
			// Support wildcard subdomains (e.g., *.example.com)
			for o := range originSet {
				if strings.HasPrefix(o, "*.") && strings.HasSuffix(origin, o[1:]) {
					allowOrigin = origin
					break
				}
			}
		}

		if allowOrigin == "" && origin != "" {
			return c.Next()
		}

		c.Set("Access-Control-Allow-Origin", allowOrigin)
		c.Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining")

		if c.Method() == fiber.MethodOptions {
			c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key, X-Request-ID")
			c.Set("Access-Control-Max-Age", "86400")
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
