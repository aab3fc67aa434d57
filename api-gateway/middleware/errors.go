package middleware

import "github.com/gofiber/fiber/v2"

// Error writes the same failure envelope the backend services use.
func Error(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// ErrorHandler renders errors that escape the handler chain.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		msg = e.Message
	}
	return Error(c, code, msg)
}
