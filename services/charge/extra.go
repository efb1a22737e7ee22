package charge

import (
	"context"
	"errors"
	"fmt"

	bookingModel "villa-booking/models/booking"
	chargeModel "villa-booking/models/charge"
	invoiceModel "villa-booking/models/invoice"
	chargeTypes "villa-booking/types/charge"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrExtraChargeNotFound = errors.New("extra charge not found")
	// ErrChargesClosed means the booking is invoiced or no longer in stay
	ErrChargesClosed = errors.New("charges can no longer be changed for this booking")
)

// ExtraChargeService keeps the free-form charges of a stay
type ExtraChargeService struct {
	DB *gorm.DB
}

func NewExtraChargeService(db *gorm.DB) *ExtraChargeService {
	return &ExtraChargeService{DB: db}
}

func (s *ExtraChargeService) List(ctx context.Context, bookingID uint) ([]chargeModel.BookingExtraCharge, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findBooking(db, bookingID, false); err != nil {
		return nil, err
	}

	var charges []chargeModel.BookingExtraCharge
	if err := db.Where("booking_id = ?", bookingID).Order("id ASC").Find(&charges).Error; err != nil {
		return nil, fmt.Errorf("failed to list extra charges: %w", err)
	}
	return charges, nil
}

func (s *ExtraChargeService) Create(ctx context.Context, bookingID uint, req chargeTypes.ExtraChargeCreateRequest, createdBy string) (*chargeModel.BookingExtraCharge, error) {
	ec := NewExtraCharge(bookingID, req, createdBy)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureOpen(tx, bookingID); err != nil {
			return err
		}
		return tx.Create(&ec).Error
	})
	if err != nil {
		return nil, err
	}
	return &ec, nil
}

// NewExtraCharge builds the row for req. Quantity defaults to 1 and an
// unknown charge type falls back to fixed.
func NewExtraCharge(bookingID uint, req chargeTypes.ExtraChargeCreateRequest, createdBy string) chargeModel.BookingExtraCharge {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return chargeModel.BookingExtraCharge{
		BookingID:   bookingID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Quantity:    quantity,
		ChargeType:  chargeModel.NormalizeExtraChargeType(req.ChargeType),
		CreatedBy:   createdBy,
	}
}

// UpdateQuantity changes only the quantity of an extra charge.
func (s *ExtraChargeService) UpdateQuantity(ctx context.Context, bookingID, chargeID uint, quantity int) (*chargeModel.BookingExtraCharge, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	var ec chargeModel.BookingExtraCharge

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureOpen(tx, bookingID); err != nil {
			return err
		}

		err := tx.Where("id = ? AND booking_id = ?", chargeID, bookingID).First(&ec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExtraChargeNotFound
		}
		if err != nil {
			return err
		}

		ec.Quantity = quantity
		return tx.Model(&ec).Update("quantity", quantity).Error
	})
	if err != nil {
		return nil, err
	}
	return &ec, nil
}

func findBooking(db *gorm.DB, bookingID uint, lock bool) (*bookingModel.Booking, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b bookingModel.Booking
	err := db.Where("deleted_at IS NULL").First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	return &b, nil
}

// ensureOpen locks the booking and rejects changes once it is invoiced or
// past its stay.
func ensureOpen(tx *gorm.DB, bookingID uint) error {
	b, err := findBooking(tx, bookingID, true)
	if err != nil {
		return err
	}
	if !b.Status.CanAccrueCharges() {
		return ErrChargesClosed
	}

	var invoices int64
	if err := tx.Model(&invoiceModel.Invoice{}).Where("booking_id = ?", bookingID).Count(&invoices).Error; err != nil {
		return err
	}
	if invoices > 0 {
		return ErrChargesClosed
	}
	return nil
}
