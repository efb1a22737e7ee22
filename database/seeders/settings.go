package seeders

import (
	"log"

	"villa-booking/config"
	"villa-booking/models/setting"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedSettings stores the env defaults for settings that have no row yet.
// Existing values are never overwritten. Mail settings stay env driven
// until an admin stores them.
func SeedSettings(db *gorm.DB, cfg *config.Config) {
	defaults := []setting.SystemSetting{
		{Key: setting.KeyAppBaseURL, Value: cfg.AppBaseURL},
		{Key: setting.KeyHotelName, Value: cfg.HotelName},
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults)
	if res.Error != nil {
		log.Printf("❌ Failed to seed system settings: %v", res.Error)
		return
	}
	log.Printf("🌱 System settings checked, %d added", res.RowsAffected)
}
