package payment

import (
	"context"
	"errors"

	"villa-booking/services"
	paymentService "villa-booking/services/payment"
	paymentTypes "villa-booking/types/payment"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type Confirmer interface {
	Confirm(ctx context.Context, bookingID uint, amount float64, reference, confirmedBy string) (*paymentService.Outcome, error)
}

// PaymentController records captured payments reported by the gateway
type PaymentController struct {
	Payments    Confirmer
	Permissions *services.PermissionService
	Production  bool
}

func NewPaymentController(payments Confirmer, production bool) *PaymentController {
	return &PaymentController{
		Payments:    payments,
		Permissions: services.NewPermissionService(),
		Production:  production,
	}
}

func (pc *PaymentController) Confirm(c *fiber.Ctx) error {
	bookingID, ok := utils.ParseID(c.Params("id"))
	if !ok {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid booking ID", nil)
	}

	var req paymentTypes.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ValidationError(c, err)
	}

	out, err := pc.Payments.Confirm(c.UserContext(), bookingID, req.Amount, req.Reference, pc.Permissions.Actor(c))
	if errors.Is(err, paymentService.ErrBookingNotFound) {
		return utils.Respond(c, fiber.StatusNotFound, "Booking not found", nil)
	}
	if err != nil {
		return utils.ServerError(c, pc.Production, "Failed to confirm payment", err)
	}

	message := "Payment confirmed"
	if !out.Notified {
		message = "Payment confirmed, notification email failed"
	}
	return utils.Respond(c, fiber.StatusOK, message, out)
}
