package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const detailImageNotFound = "Image not found"

// errorPayload defines the error response body shared by every endpoint.
type errorPayload struct {
	Detail string `json:"detail"`
}

// writeError writes a JSON error response of the form {"detail": message}.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Detail: message})
}

// ErrorHandler returns a Fiber global error handler so that unmatched routes,
// wrong methods and unexpected errors use the same {"detail": ...} shape.
// The detail is the standard status text; internal error messages are not exposed here.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		return writeError(c, status, utils.StatusMessage(status))
	}
}
