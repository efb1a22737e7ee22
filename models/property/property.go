package property

import (
	"time"
)

// Villa is a standalone rentable villa
type Villa struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Location      string     `gorm:"type:varchar(255);not null" json:"location"`
	PricePerNight float64    `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	MaxGuests     int        `gorm:"type:int;not null;default:2" json:"max_guests"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Room is a bookable room inside a building
type Room struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomNumber    string     `gorm:"type:varchar(20);not null" json:"room_number"`
	RoomType      string     `gorm:"type:varchar(100);not null" json:"room_type"`
	Building      string     `gorm:"type:varchar(255);not null" json:"building"`
	PricePerNight float64    `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Capacity      int        `gorm:"type:int;not null;default:2" json:"capacity"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
