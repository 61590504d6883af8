package middleware

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"imagegen/internal/log"
)

// Logger is a middleware that logs each HTTP request as one JSON line.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
//
// It also stores a request-scoped logger carrying request_id in the request's
// user context, so services log with the same id.
func Logger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		reqLogger := logger
		if rid != "" {
			reqLogger = logger.With("request_id", rid)
		}
		c.SetUserContext(log.NewContext(c.UserContext(), reqLogger))

		err := c.Next()

		// Collect fields after the handler ran to capture the final status.
		// An error not yet turned into a response still counts as its eventual status.
		status := c.Response().StatusCode()
		if err != nil {
			status = statusFromError(err)
		}
		latency := float64(time.Since(start).Microseconds()) / 1000

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.UserContext(), level, "http_request",
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency,
		)

		return err
	}
}

// LoggerWithWriter is Logger backed by a fresh JSON logger on w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(log.New(w, loc, slog.LevelInfo))
}

func statusFromError(err error) int {
	if fiberErr, ok := err.(*fiber.Error); ok {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
