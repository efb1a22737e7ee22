package utils

import (
	"errors"

	"villa-booking/logger"
	"villa-booking/types"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validate is shared by every controller; validator caches struct metadata.
var Validate = validator.New()

// ValidationError answers 400 with the failing field and rule of each error.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid input",
			Status:  fiber.StatusBadRequest,
		})
	}

	fields := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Message: "Validation failed",
		Status:  fiber.StatusBadRequest,
		Data:    fields,
	})
}

// ServerError logs err and answers 500. The error text is only exposed
// outside production.
func ServerError(c *fiber.Ctx, production bool, message string, err error) error {
	logger.Error(message, err)

	resp := types.ApiResponse{
		Message: message,
		Status:  fiber.StatusInternalServerError,
	}
	if !production && err != nil {
		resp.Data = fiber.Map{"error": err.Error()}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

// Respond writes the standard envelope.
func Respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    data,
	})
}
