package invoice

import (
	"context"
	"errors"
	"testing"

	invoiceModel "villa-booking/models/invoice"
	invoiceTypes "villa-booking/types/invoice"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestAdvisoryLockKeyKeepsLargeIDsApart(t *testing.T) {
	low := AdvisoryLockKey(5)
	high := AdvisoryLockKey(5 + 1<<32)
	if low == high {
		t.Fatalf("ids differing above 32 bits share lock key %d", low)
	}
	if AdvisoryLockKey(5) != low {
		t.Error("lock key is not stable")
	}
	if got := low >> 48; got != advisoryLockClass {
		t.Errorf("lock class = %d, want %d", got, advisoryLockClass)
	}
}

func TestNewInvoiceCopiesTotals(t *testing.T) {
	snap := &invoiceTypes.Snapshot{
		InvoiceNumber:  "INV-7-20250109",
		BookingID:      7,
		Subtotal:       340,
		DiscountAmount: 51,
		TaxAmount:      28.9,
		GrandTotal:     317.9,
	}
	inv := newInvoice(snap, []byte(`{}`), "desk")

	if inv.BookingID != 7 || inv.InvoiceNumber != snap.InvoiceNumber || inv.CreatedBy != "desk" {
		t.Errorf("invoice = %+v", inv)
	}
	if inv.TotalAmount != 317.9 || inv.Subtotal != 340 || inv.DiscountAmount != 51 || inv.TaxAmount != 28.9 {
		t.Errorf("totals = %v/%v/%v/%v", inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.TotalAmount)
	}
	if inv.Status != invoiceModel.StatusIssued {
		t.Errorf("status = %s", inv.Status)
	}
	if inv.PdfStatus != invoiceModel.DeliveryPending || inv.EmailStatus != invoiceModel.DeliveryPending {
		t.Errorf("delivery = %s/%s, want pending", inv.PdfStatus, inv.EmailStatus)
	}
}

func TestResolveConflict(t *testing.T) {
	winner := &invoiceModel.Invoice{ID: 3, BookingID: 7, InvoiceNumber: "INV-7-20250109"}
	duplicate := &pgconn.PgError{Code: "23505"}

	found := func(context.Context, uint) (*invoiceModel.Invoice, error) { return winner, nil }
	missing := func(context.Context, uint) (*invoiceModel.Invoice, error) { return nil, ErrInvoiceNotFound }
	unused := func(context.Context, uint) (*invoiceModel.Invoice, error) {
		t.Error("lookup ran for a non-duplicate error")
		return nil, nil
	}

	err := resolveConflict(context.Background(), duplicate, 7, found)
	var exists *ExistsError
	if !errors.As(err, &exists) || exists.Existing != winner {
		t.Fatalf("err = %v, want ExistsError with the winning invoice", err)
	}

	err = resolveConflict(context.Background(), duplicate, 7, missing)
	if !errors.As(err, &exists) || exists.Existing != nil {
		t.Errorf("err = %v, want empty ExistsError", err)
	}
	if !errors.Is(err, ErrInvoiceExists) {
		t.Error("conflict does not unwrap to ErrInvoiceExists")
	}

	other := errors.New("connection reset")
	if err := resolveConflict(context.Background(), other, 7, unused); err != other {
		t.Errorf("err = %v, want passthrough", err)
	}
}
