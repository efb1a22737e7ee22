package setting

import (
	"time"
)

// SystemSetting is a runtime-editable configuration value
type SystemSetting struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Encrypted bool      `gorm:"default:false" json:"encrypted"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Well-known setting keys
const (
	KeyMailHost     = "mail.host"
	KeyMailPort     = "mail.port"
	KeyMailUsername = "mail.username"
	KeyMailPassword = "mail.password"
	KeyMailFrom     = "mail.from"
	KeyAppBaseURL   = "app.base_url"
	KeyHotelName    = "app.hotel_name"
)
