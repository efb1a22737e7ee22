package booking

import (
	"context"

	bookingModel "villa-booking/models/booking"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type History interface {
	History(ctx context.Context, bookingID uint) ([]bookingModel.BookingStatusEvent, error)
}

// BookingController exposes booking status history
type BookingController struct {
	Events     History
	Production bool
}

func NewBookingController(events History, production bool) *BookingController {
	return &BookingController{Events: events, Production: production}
}

// StatusHistory lists the status transitions of a booking, oldest first
func (bc *BookingController) StatusHistory(c *fiber.Ctx) error {
	bookingID, ok := utils.ParseID(c.Params("id"))
	if !ok {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid booking ID", nil)
	}

	events, err := bc.Events.History(c.UserContext(), bookingID)
	if err != nil {
		return utils.ServerError(c, bc.Production, "Failed to load status history", err)
	}
	if events == nil {
		events = []bookingModel.BookingStatusEvent{}
	}
	return utils.Respond(c, fiber.StatusOK, "Status history retrieved", events)
}
