package booking

import (
	"time"
)

// Booking represents a guest's reserved stay at a villa or a room
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Polymorphic property reference, resolved through property.Resolver
	PropertyType PropertyType `gorm:"type:varchar(10);not null" json:"property_type"`
	PropertyID   uint         `gorm:"not null" json:"property_id"`

	GuestName  string `gorm:"type:varchar(255);not null" json:"guest_name"`
	GuestEmail string `gorm:"type:varchar(255)" json:"guest_email"`
	GuestPhone string `gorm:"type:varchar(20)" json:"guest_phone"`

	CheckInDate  time.Time `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"type:date;not null" json:"check_out_date"`
	Adults       int       `gorm:"type:int;not null;default:1" json:"adults"`
	Children     int       `gorm:"type:int;not null;default:0" json:"children"`

	TotalAmount   float64       `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	AmountPaid    *float64      `gorm:"type:decimal(10,2)" json:"amount_paid,omitempty"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Back-filled when the invoice is persisted
	InvoiceID *uint `gorm:"index" json:"invoice_id,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Occupants returns the number of adults and children on the booking.
func (b *Booking) Occupants() int {
	return b.Adults + b.Children
}

// Paid returns the amount paid so far, treating a missing value as zero.
func (b *Booking) Paid() float64 {
	if b.AmountPaid == nil {
		return 0
	}
	return *b.AmountPaid
}
