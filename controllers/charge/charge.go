package charge

import (
	"context"
	"errors"

	chargeModel "villa-booking/models/charge"
	"villa-booking/services"
	chargeService "villa-booking/services/charge"
	chargeTypes "villa-booking/types/charge"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

// ExtraCharges is the extra-charge service the controller drives
type ExtraCharges interface {
	List(ctx context.Context, bookingID uint) ([]chargeModel.BookingExtraCharge, error)
	Create(ctx context.Context, bookingID uint, req chargeTypes.ExtraChargeCreateRequest, createdBy string) (*chargeModel.BookingExtraCharge, error)
	UpdateQuantity(ctx context.Context, bookingID, chargeID uint, quantity int) (*chargeModel.BookingExtraCharge, error)
}

type ChargeController struct {
	Charges     ExtraCharges
	Permissions *services.PermissionService
	Production  bool
}

func NewChargeController(charges ExtraCharges, production bool) *ChargeController {
	return &ChargeController{
		Charges:     charges,
		Permissions: services.NewPermissionService(),
		Production:  production,
	}
}

func (cc *ChargeController) failure(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, chargeService.ErrBookingNotFound):
		return utils.Respond(c, fiber.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, chargeService.ErrExtraChargeNotFound):
		return utils.Respond(c, fiber.StatusNotFound, "Extra charge not found", nil)
	case errors.Is(err, chargeService.ErrChargesClosed):
		return utils.Respond(c, fiber.StatusBadRequest, err.Error(), nil)
	default:
		return utils.ServerError(c, cc.Production, message, err)
	}
}

// List returns the extra charges of a booking
func (cc *ChargeController) List(c *fiber.Ctx) error {
	bookingID, ok := utils.ParseID(c.Params("id"))
	if !ok {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid booking ID", nil)
	}

	charges, err := cc.Charges.List(c.UserContext(), bookingID)
	if err != nil {
		return cc.failure(c, "Failed to list extra charges", err)
	}
	return utils.Respond(c, fiber.StatusOK, "Extra charges retrieved successfully", charges)
}

// Create adds an extra charge. Unknown charge types are stored as fixed.
func (cc *ChargeController) Create(c *fiber.Ctx) error {
	bookingID, ok := utils.ParseID(c.Params("bookingId"))
	if !ok {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid booking ID", nil)
	}

	var req chargeTypes.ExtraChargeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ValidationError(c, err)
	}

	ec, err := cc.Charges.Create(c.UserContext(), bookingID, req, cc.Permissions.Actor(c))
	if err != nil {
		return cc.failure(c, "Failed to create extra charge", err)
	}
	return utils.Respond(c, fiber.StatusCreated, "Extra charge created successfully", ec)
}

// UpdateQuantity changes only the quantity of an extra charge
func (cc *ChargeController) UpdateQuantity(c *fiber.Ctx) error {
	bookingID, ok := utils.ParseID(c.Params("bookingId"))
	if !ok {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid booking ID", nil)
	}
	chargeID, ok := utils.ParseID(c.Params("chargeId"))
	if !ok {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid extra charge ID", nil)
	}

	var req chargeTypes.ExtraChargeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ValidationError(c, err)
	}

	ec, err := cc.Charges.UpdateQuantity(c.UserContext(), bookingID, chargeID, req.Quantity)
	if err != nil {
		return cc.failure(c, "Failed to update extra charge", err)
	}
	return utils.Respond(c, fiber.StatusOK, "Extra charge updated successfully", ec)
}
