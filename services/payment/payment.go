package payment

import (
	"context"
	"errors"
	"fmt"

	"villa-booking/logger"
	bookingModel "villa-booking/models/booking"
	invoiceModel "villa-booking/models/invoice"
	"villa-booking/services/rating"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBookingNotFound = errors.New("booking not found")

// Notifier sends the payment confirmation email
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, bookingID uint, amount float64, reference string) bool
}

// Outcome of a payment confirmation
type Outcome struct {
	Booking  *bookingModel.Booking `json:"booking"`
	Owed     float64               `json:"owed"`
	Notified bool                  `json:"notified"`
}

// Service records amounts captured by the payment gateway
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{DB: db, Notifier: notifier}
}

// Confirm adds amount to the booking's paid total, recomputes its payment
// status against the invoice total (or the booking total before invoicing)
// and notifies the guest and property staff.
func (s *Service) Confirm(ctx context.Context, bookingID uint, amount float64, reference, confirmedBy string) (*Outcome, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %.2f", amount)
	}

	out := &Outcome{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b bookingModel.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("deleted_at IS NULL").First(&b, bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		var inv *invoiceModel.Invoice
		var found invoiceModel.Invoice
		err = tx.Where("booking_id = ?", bookingID).First(&found).Error
		switch {
		case err == nil:
			inv = &found
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		owed, markInvoicePaid := Apply(&b, inv, amount)
		paid := *b.AmountPaid
		status := b.PaymentStatus
		b.UpdatedBy = confirmedBy

		if err := tx.Model(&bookingModel.Booking{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
			"amount_paid":    paid,
			"payment_status": status,
			"updated_by":     confirmedBy,
		}).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if markInvoicePaid {
			if err := tx.Model(inv).Update("status", invoiceModel.StatusPaid).Error; err != nil {
				return fmt.Errorf("failed to mark invoice paid: %w", err)
			}
		}

		out.Booking = &b
		out.Owed = owed
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Payment %s of %.2f recorded for booking %d (%s)", reference, amount, bookingID, out.Booking.PaymentStatus))
	if s.Notifier != nil {
		out.Notified = s.Notifier.SendPaymentConfirmation(ctx, bookingID, amount, reference)
	}
	return out, nil
}

// Apply adds amount to b and recomputes its payment status against the
// invoice total, or the booking total when inv is nil. It reports what is
// owed and whether an issued invoice is now settled.
func Apply(b *bookingModel.Booking, inv *invoiceModel.Invoice, amount float64) (owed float64, settled bool) {
	owed = b.TotalAmount
	if inv != nil {
		owed = inv.TotalAmount
	}

	paid := rating.Round2(b.Paid() + amount)
	b.AmountPaid = &paid
	b.PaymentStatus = bookingModel.PaymentStatusFor(paid, owed)

	settled = inv != nil && b.PaymentStatus == bookingModel.PaymentStatusPaid && inv.Status == invoiceModel.StatusIssued
	return owed, settled
}
