package seeders

import (
	"log"

	"villa-booking/models/charge"

	"gorm.io/gorm"
)

func ptr(v float64) *float64 { return &v }

// SeedChargeCatalog inserts the default meal plans, transfers and
// additional charges that are missing by name.
func SeedChargeCatalog(db *gorm.DB) {
	seedByName(db, "meal plans", &charge.MealPlan{}, []charge.MealPlan{
		{Name: "Room Only", Price: 0, UnitType: charge.UnitFixed, IsActive: true},
		{Name: "Bed & Breakfast", Price: 15, UnitType: charge.UnitPerPerson, IsActive: true},
		{Name: "Half Board", Price: 35, UnitType: charge.UnitPerPerson, IsActive: true},
		{Name: "Full Board", Price: 55, UnitType: charge.UnitPerPerson, IsActive: true},
		{Name: "Daily Breakfast Basket", Price: 20, UnitType: charge.UnitPerDay, IsActive: true},
	}, func(m charge.MealPlan) string { return m.Name })

	seedByName(db, "transportation options", &charge.Transportation{}, []charge.Transportation{
		{Name: "Airport Transfer", Price: 40, UnitType: charge.UnitFixed, IsActive: true},
		{Name: "Private Driver", Price: 2, UnitType: charge.UnitPerKm, MinimumCharge: ptr(50), IsActive: true},
		{Name: "Shuttle Bus", Price: 8, UnitType: charge.UnitPerPerson, IsActive: true},
		{Name: "Scooter Rental", Price: 12, UnitType: charge.UnitPerDay, IsActive: true},
	}, func(t charge.Transportation) string { return t.Name })

	seedByName(db, "additional charges", &charge.AdditionalCharge{}, []charge.AdditionalCharge{
		{Name: "Cleaning Fee", Price: 25, UnitType: charge.UnitFixed, IsActive: true},
		{Name: "Service Charge", Price: 5, UnitType: charge.UnitPercentage, IsActive: true},
		{Name: "Extra Bed", Price: 18, UnitType: charge.UnitPerDay, IsActive: true},
		{Name: "Late Checkout", Price: 30, UnitType: charge.UnitFixed, IsActive: true},
		{Name: "Tourism Levy", Price: 2, UnitType: charge.UnitPerPerson, IsActive: true},
	}, func(a charge.AdditionalCharge) string { return a.Name })
}

func seedByName[T any](db *gorm.DB, label string, model interface{}, rows []T, name func(T) string) {
	log.Printf("🔍 Checking %s data integrity...", label)

	var existingNames []string
	if err := db.Model(model).Pluck("name", &existingNames).Error; err != nil {
		log.Printf("❌ Failed to fetch existing %s: %v", label, err)
		return
	}

	existing := make(map[string]bool, len(existingNames))
	for _, n := range existingNames {
		existing[n] = true
	}

	var missing []T
	for _, row := range rows {
		if !existing[name(row)] {
			missing = append(missing, row)
		}
	}

	log.Printf("📊 %s: expected %d, existing %d, missing %d", label, len(rows), len(existingNames), len(missing))
	if len(missing) == 0 {
		log.Printf("✅ All %s are already present. No seeding needed.", label)
		return
	}

	successCount, failureCount := 0, 0
	for i := range missing {
		if err := db.Create(&missing[i]).Error; err != nil {
			log.Printf("❌ Failed to seed %s: %v", name(missing[i]), err)
			failureCount++
		} else {
			log.Printf("✅ Added: %s", name(missing[i]))
			successCount++
		}
	}

	log.Printf("🎉 Seeding %s completed! Successfully inserted %d, %d failures", label, successCount, failureCount)
}
