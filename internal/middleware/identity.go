package middleware

import "github.com/gofiber/fiber/v2"

// Identity injects the caller's user ID into the request context. There is
// no real authentication yet: the configured demo user stands in for every
// caller. Handlers read the ID back via c.Locals("user_id").
func Identity(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}
