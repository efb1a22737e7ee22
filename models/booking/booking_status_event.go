package booking

import (
	"time"
)

// BookingStatusEvent records a status transition of a booking
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"-"`

	FromStatus BookingStatus `gorm:"size:20" json:"from_status"`
	Status     BookingStatus `gorm:"size:20;not null" json:"status"`
	Reason     string        `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedBy  string        `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
