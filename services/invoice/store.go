package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	bookingModel "villa-booking/models/booking"
	invoiceModel "villa-booking/models/invoice"
	invoiceTypes "villa-booking/types/invoice"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// advisoryLockClass namespaces the per-booking advisory lock. It fills the
// high 16 bits of the bigint key; booking ids keep the low 48.
const advisoryLockClass int64 = 7301

// AdvisoryLockKey is the pg_advisory_xact_lock key guarding invoice creation
// for a booking.
func AdvisoryLockKey(bookingID uint) int64 {
	return advisoryLockClass<<48 | int64(uint64(bookingID)&(1<<48-1))
}

// Store persists invoices, at most one per booking
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// FindByBooking returns the invoice of a booking or ErrInvoiceNotFound.
func (s *Store) FindByBooking(ctx context.Context, bookingID uint) (*invoiceModel.Invoice, error) {
	return findByBooking(s.DB.WithContext(ctx), bookingID)
}

func findByBooking(db *gorm.DB, bookingID uint) (*invoiceModel.Invoice, error) {
	var inv invoiceModel.Invoice
	err := db.Where("booking_id = ?", bookingID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice for booking %d: %w", bookingID, err)
	}
	return &inv, nil
}

// Create writes the invoice and back-fills the booking's invoice reference in
// one transaction serialised per booking. A second attempt for the same
// booking returns an *ExistsError holding the first invoice.
func (s *Store) Create(ctx context.Context, snap *invoiceTypes.Snapshot, createdBy string) (*invoiceModel.Invoice, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoice snapshot: %w", err)
	}

	inv := newInvoice(snap, raw, createdBy)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", AdvisoryLockKey(snap.BookingID)).Error; err != nil {
			return fmt.Errorf("failed to lock booking %d: %w", snap.BookingID, err)
		}

		var b bookingModel.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&b, snap.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking row: %w", err)
		}

		existing, err := findByBooking(tx, snap.BookingID)
		if err == nil {
			return &ExistsError{Existing: existing}
		}
		if !errors.Is(err, ErrInvoiceNotFound) {
			return err
		}

		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		return tx.Model(&bookingModel.Booking{}).
			Where("id = ?", snap.BookingID).
			Update("invoice_id", inv.ID).Error
	})

	if err != nil {
		return nil, resolveConflict(ctx, err, snap.BookingID, s.FindByBooking)
	}
	return &inv, nil
}

func newInvoice(snap *invoiceTypes.Snapshot, raw []byte, createdBy string) invoiceModel.Invoice {
	return invoiceModel.Invoice{
		BookingID:      snap.BookingID,
		InvoiceNumber:  snap.InvoiceNumber,
		InvoiceDate:    snap.InvoiceDate,
		Subtotal:       snap.Subtotal,
		TaxAmount:      snap.TaxAmount,
		DiscountAmount: snap.DiscountAmount,
		TotalAmount:    snap.GrandTotal,
		Status:         invoiceModel.StatusIssued,
		Snapshot:       datatypes.JSON(raw),
		PdfStatus:      invoiceModel.DeliveryPending,
		EmailStatus:    invoiceModel.DeliveryPending,
		CreatedBy:      createdBy,
	}
}

// resolveConflict turns a UNIQUE violation into an *ExistsError carrying the
// row that won. Other errors pass through unchanged.
func resolveConflict(ctx context.Context, err error, bookingID uint, find func(context.Context, uint) (*invoiceModel.Invoice, error)) error {
	if !IsUniqueViolation(err) {
		return err
	}
	// Lost a race the lock did not cover (e.g. another writer without it)
	existing, findErr := find(ctx, bookingID)
	if findErr != nil {
		return &ExistsError{}
	}
	return &ExistsError{Existing: existing}
}

// MarkDelivery records the PDF and email outcome of a checkout.
func (s *Store) MarkDelivery(ctx context.Context, invoiceID uint, pdf, email invoiceModel.DeliveryStatus, lastError string) error {
	return s.DB.WithContext(ctx).Model(&invoiceModel.Invoice{}).
		Where("id = ?", invoiceID).
		Updates(map[string]interface{}{
			"pdf_status":   pdf,
			"email_status": email,
			"last_error":   lastError,
		}).Error
}

// DecodeSnapshot reads the stored breakdown back out of an invoice row.
func DecodeSnapshot(inv *invoiceModel.Invoice) (*invoiceTypes.Snapshot, error) {
	if len(inv.Snapshot) == 0 {
		return nil, fmt.Errorf("invoice %s has no stored snapshot", inv.InvoiceNumber)
	}
	var snap invoiceTypes.Snapshot
	if err := json.Unmarshal(inv.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode invoice snapshot: %w", err)
	}
	return &snap, nil
}
