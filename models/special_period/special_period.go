package special_period

import (
	"time"
)

// SpecialPeriod grants a discount on stays overlapping its date range
type SpecialPeriod struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	StartDate          time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time `gorm:"type:date;not null" json:"end_date"`
	DiscountPercentage float64   `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Overlaps reports whether the period touches the [from, to] range.
func (sp *SpecialPeriod) Overlaps(from, to time.Time) bool {
	return !sp.StartDate.After(to) && !sp.EndDate.Before(from)
}
