package review

import (
	"time"
)

// ReviewToken is a single-use credential that lets a guest review their stay
type ReviewToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint      `gorm:"not null;index" json:"booking_id"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired checks if the token has passed its expiry at the given instant
func (t *ReviewToken) IsExpired(at time.Time) bool {
	return !at.Before(t.ExpiresAt)
}

// Review is a guest's rating of a stay
type Review struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID    uint      `gorm:"not null;uniqueIndex" json:"booking_id"`
	PropertyType string    `gorm:"type:varchar(10);not null" json:"property_type"`
	PropertyID   uint      `gorm:"not null;index" json:"property_id"`
	GuestName    string    `gorm:"type:varchar(255)" json:"guest_name"`
	Rating       int       `gorm:"type:int;not null" json:"rating"`
	Comment      string    `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
