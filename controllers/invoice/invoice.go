package invoice

import (
	"context"
	"errors"
	"fmt"

	"villa-booking/logger"
	invoiceModel "villa-booking/models/invoice"
	"villa-booking/services"
	"villa-booking/services/checkout"
	"villa-booking/services/document"
	invoiceService "villa-booking/services/invoice"
	"villa-booking/types"
	invoiceTypes "villa-booking/types/invoice"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type Calculator interface {
	Compute(ctx context.Context, bookingID uint) (*invoiceTypes.Snapshot, error)
}

type Store interface {
	FindByBooking(ctx context.Context, bookingID uint) (*invoiceModel.Invoice, error)
	Create(ctx context.Context, snap *invoiceTypes.Snapshot, createdBy string) (*invoiceModel.Invoice, error)
}

type Finalizer interface {
	Finalize(ctx context.Context, bookingID uint, actor string) (*checkout.Result, error)
}

type Renderer interface {
	RenderContext(ctx context.Context, snap *invoiceTypes.Snapshot) (*document.Document, error)
}

// InvoiceController serves charge breakdowns, invoices and checkout
type InvoiceController struct {
	Calculator  Calculator
	Invoices    Store
	Checkout    Finalizer
	Renderer    Renderer
	Permissions *services.PermissionService
	Production  bool
}

func NewInvoiceController(calc Calculator, store Store, finalizer Finalizer, renderer Renderer, production bool) *InvoiceController {
	return &InvoiceController{
		Calculator:  calc,
		Invoices:    store,
		Checkout:    finalizer,
		Renderer:    renderer,
		Permissions: services.NewPermissionService(),
		Production:  production,
	}
}

func bookingID(c *fiber.Ctx) (uint, bool) {
	if raw := c.Params("id"); raw != "" {
		return utils.ParseID(raw)
	}
	return utils.ParseID(c.Params("bookingId"))
}

func invalidID(c *fiber.Ctx) error {
	return utils.Respond(c, fiber.StatusBadRequest, "Invalid booking ID", nil)
}

// Charges returns the current computed invoice without persisting it.
func (ic *InvoiceController) Charges(c *fiber.Ctx) error {
	id, ok := bookingID(c)
	if !ok {
		return invalidID(c)
	}

	snap, err := ic.Calculator.Compute(c.UserContext(), id)
	if invoiceService.IsNotFound(err) {
		return utils.Respond(c, fiber.StatusNotFound, "Booking not found", nil)
	}
	if err != nil {
		return utils.ServerError(c, ic.Production, "Failed to compute charges", err)
	}

	return utils.Respond(c, fiber.StatusOK, "Charges computed successfully", snap)
}

// CreateInvoice persists the invoice of a booking. A booking that already
// has one gets 400 with the existing invoice.
func (ic *InvoiceController) CreateInvoice(c *fiber.Ctx) error {
	id, ok := bookingID(c)
	if !ok {
		return invalidID(c)
	}
	ctx := c.UserContext()

	if existing, err := ic.Invoices.FindByBooking(ctx, id); err == nil {
		return utils.Respond(c, fiber.StatusBadRequest, "Invoice already exists for this booking", existing)
	} else if !errors.Is(err, invoiceService.ErrInvoiceNotFound) {
		return utils.ServerError(c, ic.Production, "Failed to check existing invoice", err)
	}

	snap, err := ic.Calculator.Compute(ctx, id)
	if invoiceService.IsNotFound(err) {
		return utils.Respond(c, fiber.StatusNotFound, "Booking not found", nil)
	}
	if err != nil {
		return utils.ServerError(c, ic.Production, "Failed to compute invoice", err)
	}

	inv, err := ic.Invoices.Create(ctx, snap, ic.Permissions.Actor(c))
	var exists *invoiceService.ExistsError
	switch {
	case errors.As(err, &exists):
		return utils.Respond(c, fiber.StatusBadRequest, "Invoice already exists for this booking", exists.Existing)
	case invoiceService.IsNotFound(err):
		return utils.Respond(c, fiber.StatusNotFound, "Booking not found", nil)
	case err != nil:
		return utils.ServerError(c, ic.Production, "Failed to create invoice", err)
	}

	logger.Success(fmt.Sprintf("Invoice %s created for booking %d", inv.InvoiceNumber, id))
	return utils.Respond(c, fiber.StatusCreated, "Invoice created successfully", fiber.Map{
		"invoice":  inv,
		"snapshot": snap,
	})
}

// FinalizeCheckout runs the checkout pipeline and reports each step.
func (ic *InvoiceController) FinalizeCheckout(c *fiber.Ctx) error {
	id, ok := bookingID(c)
	if !ok {
		return invalidID(c)
	}

	res, err := ic.Checkout.Finalize(c.UserContext(), id, ic.Permissions.Actor(c))
	if errors.Is(err, checkout.ErrBookingNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.CheckoutResponse{
			Success: false,
			Message: "Booking not found",
		})
	}
	if err != nil {
		return utils.ServerError(c, ic.Production, "Checkout failed", err)
	}

	return c.Status(res.HTTPStatus()).JSON(res.Response())
}

// DownloadPDF renders the persisted invoice of a booking.
func (ic *InvoiceController) DownloadPDF(c *fiber.Ctx) error {
	id, ok := bookingID(c)
	if !ok {
		return invalidID(c)
	}
	ctx := c.UserContext()

	inv, err := ic.Invoices.FindByBooking(ctx, id)
	if errors.Is(err, invoiceService.ErrInvoiceNotFound) {
		return utils.Respond(c, fiber.StatusNotFound, "Invoice not found", nil)
	}
	if err != nil {
		return utils.ServerError(c, ic.Production, "Failed to load invoice", err)
	}

	snap, err := invoiceService.DecodeSnapshot(inv)
	if err != nil {
		return utils.ServerError(c, ic.Production, "Stored invoice is unreadable", err)
	}

	doc, err := ic.Renderer.RenderContext(ctx, snap)
	if err != nil {
		return utils.ServerError(c, ic.Production, "Failed to render invoice", err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	return c.Status(fiber.StatusOK).Send(doc.Bytes)
}
