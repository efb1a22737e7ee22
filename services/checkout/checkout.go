package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"villa-booking/logger"
	bookingModel "villa-booking/models/booking"
	invoiceModel "villa-booking/models/invoice"
	"villa-booking/services/document"
	"villa-booking/services/invoice"
	invoiceTypes "villa-booking/types/invoice"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingFinder interface {
	FindBooking(ctx context.Context, bookingID uint) (*bookingModel.Booking, error)
}

type Calculator interface {
	Compute(ctx context.Context, bookingID uint) (*invoiceTypes.Snapshot, error)
}

type InvoiceStore interface {
	FindByBooking(ctx context.Context, bookingID uint) (*invoiceModel.Invoice, error)
	Create(ctx context.Context, snap *invoiceTypes.Snapshot, createdBy string) (*invoiceModel.Invoice, error)
	MarkDelivery(ctx context.Context, invoiceID uint, pdf, email invoiceModel.DeliveryStatus, lastError string) error
}

type StatusUpdater interface {
	Transition(ctx context.Context, bookingID uint, status bookingModel.BookingStatus, reason, updatedBy string) error
}

type Renderer interface {
	RenderContext(ctx context.Context, snap *invoiceTypes.Snapshot) (*document.Document, error)
}

type Notifier interface {
	SendCheckoutConfirmation(ctx context.Context, bookingID uint, doc *document.Document) bool
}

// Enqueuer hands document and email work to a background worker
type Enqueuer interface {
	EnqueueDelivery(ctx context.Context, bookingID, invoiceID uint) error
}

// Orchestrator runs checkout as a sequence of best-effort steps. A failed
// step never undoes the ones before it.
type Orchestrator struct {
	Bookings   BookingFinder
	Calculator Calculator
	Invoices   InvoiceStore
	Status     StatusUpdater
	Renderer   Renderer
	Notifier   Notifier
	// Queue, when set, moves rendering and email off the request path
	Queue Enqueuer

	CheckoutStatus bookingModel.BookingStatus
	RenderTimeout  time.Duration
	MailTimeout    time.Duration
}

// ResolveCheckoutStatus validates the configured checkout label.
func ResolveCheckoutStatus(label string) (bookingModel.BookingStatus, error) {
	if label == "" {
		return bookingModel.BookingStatusCheckOut, nil
	}
	status := bookingModel.BookingStatus(label)
	if !status.IsValid() {
		return "", fmt.Errorf("checkout status %q is not a booking status", label)
	}
	return status, nil
}

// Finalize checks a guest out. It fails only when the booking does not exist
// or cannot be loaded; every other outcome is reported in the Result.
func (o *Orchestrator) Finalize(ctx context.Context, bookingID uint, actor string) (*Result, error) {
	if _, err := o.Bookings.FindBooking(ctx, bookingID); err != nil {
		if invoice.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	res := &Result{}

	inv, snap, err := o.resolveInvoice(ctx, bookingID, actor)
	if err != nil {
		logger.Error(fmt.Sprintf("Checkout %d: invoice step failed", bookingID), err)
		res.Details.InvoiceError = err.Error()
	} else {
		res.Details.InvoiceCreated = true
		res.Invoice = inv
	}

	if err := o.Status.Transition(ctx, bookingID, o.checkoutStatus(), "checkout", actor); err != nil {
		logger.Error(fmt.Sprintf("Checkout %d: status update failed", bookingID), err)
	} else {
		res.Details.StatusUpdated = true
	}

	if !res.Details.InvoiceCreated {
		return res, nil
	}

	if o.Queue != nil {
		err := o.Queue.EnqueueDelivery(ctx, bookingID, inv.ID)
		if err == nil {
			res.Details.DeliveryQueued = true
			o.markDelivery(ctx, inv.ID, invoiceModel.DeliveryQueued, invoiceModel.DeliveryQueued, "")
			return res, nil
		}
		logger.Warning(fmt.Sprintf("Checkout %d: enqueue failed, delivering inline: %v", bookingID, err))
	}

	o.deliver(ctx, bookingID, inv, snap, &res.Details)
	return res, nil
}

// Deliver renders and emails an already persisted invoice. It backs the
// background worker.
func (o *Orchestrator) Deliver(ctx context.Context, bookingID uint) (*Result, error) {
	inv, err := o.Invoices.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	snap, err := o.snapshotOf(ctx, inv)
	if err != nil {
		return nil, err
	}

	res := &Result{Invoice: inv}
	res.Details.InvoiceCreated = true
	res.Details.StatusUpdated = true
	o.deliver(ctx, bookingID, inv, snap, &res.Details)
	return res, nil
}

func (o *Orchestrator) resolveInvoice(ctx context.Context, bookingID uint, actor string) (*invoiceModel.Invoice, *invoiceTypes.Snapshot, error) {
	existing, err := o.Invoices.FindByBooking(ctx, bookingID)
	if err == nil {
		snap, err := o.snapshotOf(ctx, existing)
		if err != nil {
			return nil, nil, err
		}
		return existing, snap, nil
	}
	if !errors.Is(err, invoice.ErrInvoiceNotFound) {
		return nil, nil, err
	}

	snap, err := o.Calculator.Compute(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	inv, err := o.Invoices.Create(ctx, snap, actor)
	var exists *invoice.ExistsError
	if errors.As(err, &exists) && exists.Existing != nil {
		// A concurrent checkout won; use its invoice
		snap, err := o.snapshotOf(ctx, exists.Existing)
		if err != nil {
			return nil, nil, err
		}
		return exists.Existing, snap, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return inv, snap, nil
}

// snapshotOf prefers the stored breakdown so the document matches the
// persisted totals.
func (o *Orchestrator) snapshotOf(ctx context.Context, inv *invoiceModel.Invoice) (*invoiceTypes.Snapshot, error) {
	snap, err := invoice.DecodeSnapshot(inv)
	if err == nil {
		return snap, nil
	}
	logger.Warning(fmt.Sprintf("Invoice %s: %v, recomputing", inv.InvoiceNumber, err))

	snap, err = o.Calculator.Compute(ctx, inv.BookingID)
	if err != nil {
		return nil, err
	}
	snap.InvoiceNumber = inv.InvoiceNumber
	snap.InvoiceDate = inv.InvoiceDate
	return snap, nil
}

func (o *Orchestrator) deliver(ctx context.Context, bookingID uint, inv *invoiceModel.Invoice, snap *invoiceTypes.Snapshot, details *Details) {
	pdfStatus, emailStatus := invoiceModel.DeliveryFailed, invoiceModel.DeliveryPending

	doc, err := o.render(ctx, snap)
	if err != nil {
		logger.Error(fmt.Sprintf("Checkout %d: PDF rendering failed", bookingID), err)
		details.PdfError = err.Error()
		o.markDelivery(ctx, inv.ID, pdfStatus, emailStatus, err.Error())
		return
	}
	details.PdfGenerated = true
	pdfStatus = invoiceModel.DeliverySent

	mailCtx := ctx
	if o.MailTimeout > 0 {
		var cancel context.CancelFunc
		mailCtx, cancel = context.WithTimeout(ctx, o.MailTimeout)
		defer cancel()
	}

	lastError := ""
	if o.Notifier.SendCheckoutConfirmation(mailCtx, bookingID, doc) {
		details.EmailSent = true
		emailStatus = invoiceModel.DeliverySent
	} else {
		details.EmailError = "failed to send checkout confirmation email"
		emailStatus = invoiceModel.DeliveryFailed
		lastError = details.EmailError
	}
	o.markDelivery(ctx, inv.ID, pdfStatus, emailStatus, lastError)
}

func (o *Orchestrator) render(ctx context.Context, snap *invoiceTypes.Snapshot) (*document.Document, error) {
	if o.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.RenderTimeout)
		defer cancel()
	}
	return o.Renderer.RenderContext(ctx, snap)
}

func (o *Orchestrator) markDelivery(ctx context.Context, invoiceID uint, pdf, email invoiceModel.DeliveryStatus, lastError string) {
	if err := o.Invoices.MarkDelivery(ctx, invoiceID, pdf, email, lastError); err != nil {
		logger.Warning(fmt.Sprintf("Invoice %d: failed to record delivery status: %v", invoiceID, err))
	}
}

func (o *Orchestrator) checkoutStatus() bookingModel.BookingStatus {
	if o.CheckoutStatus == "" {
		return bookingModel.BookingStatusCheckOut
	}
	return o.CheckoutStatus
}
