package middleware

import (
	"context"
	"fmt"
	"time"

	"villa-booking/logger"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestContext tags each request with an id and bounds its user context
// by timeout.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Header values alias the request buffer, which fasthttp reuses
		id := fiberUtils.CopyString(c.Get(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Locals("reqid", id)

		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequestLogger writes every exchange to the logs table through sink.
func RequestLogger(sink *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before logging
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		entry := utils.CreateSanitizedLogEntry(c, start)
		sink.Log(entry)
		logger.Debug(fmt.Sprintf("[REQ] id=%s %s %s status=%d dur=%s", entry.RequestID, entry.Method, entry.URL, entry.StatusCode, entry.Duration))
		return nil
	}
}

// RateLimit allows max requests per window from one client IP.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error":  "Too many requests, please try again later",
			})
		},
	})
}
