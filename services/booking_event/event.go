package booking_event

import (
	"context"
	"errors"
	"fmt"

	bookingModel "villa-booking/models/booking"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBookingNotFound = errors.New("booking not found")

// TransitionStatus moves a booking to status inside tx and writes a
// BookingStatusEvent row. A booking already in that status is left alone.
func TransitionStatus(tx *gorm.DB, bookingID uint, status bookingModel.BookingStatus, reason, updatedBy string) (bookingModel.BookingStatus, error) {
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status %q", status)
	}

	var b bookingModel.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "status").First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrBookingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to lock booking %d: %w", bookingID, err)
	}

	from := b.Status
	if from == status {
		return from, nil
	}

	if err := tx.Model(&bookingModel.Booking{}).Where("id = ?", bookingID).Updates(map[string]interface{}{
		"status":     status,
		"updated_by": updatedBy,
	}).Error; err != nil {
		return from, fmt.Errorf("failed to update booking status: %w", err)
	}

	ev := bookingModel.BookingStatusEvent{
		BookingID:  bookingID,
		FromStatus: from,
		Status:     status,
		Reason:     reason,
		CreatedBy:  updatedBy,
	}
	if err := tx.Create(&ev).Error; err != nil {
		return from, fmt.Errorf("failed to record status event: %w", err)
	}
	return from, nil
}

// Recorder runs status transitions in their own transaction
type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

func (r *Recorder) Transition(ctx context.Context, bookingID uint, status bookingModel.BookingStatus, reason, updatedBy string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := TransitionStatus(tx, bookingID, status, reason, updatedBy)
		return err
	})
}

// History lists a booking's status events, oldest first.
func (r *Recorder) History(ctx context.Context, bookingID uint) ([]bookingModel.BookingStatusEvent, error) {
	var events []bookingModel.BookingStatusEvent
	err := r.DB.WithContext(ctx).Where("booking_id = ?", bookingID).Order("id ASC").Find(&events).Error
	return events, err
}
