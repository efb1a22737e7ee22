package database

import (
	"fmt"
	"time"

	"villa-booking/config"
	"villa-booking/logger"
	"villa-booking/models/booking"
	"villa-booking/models/charge"
	"villa-booking/models/invoice"
	"villa-booking/models/log"
	"villa-booking/models/property"
	"villa-booking/models/review"
	"villa-booking/models/setting"
	"villa-booking/models/special_period"
	"villa-booking/models/staff"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL connection and tunes its pool. Run Migrate
// separately to create the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormLogger.Warn
	if cfg.IsProduction() {
		logLevel = gormLogger.Error
	}

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	TunePool(cfg)
	return DB, nil
}

// TunePool applies the configured connection limits.
func TunePool(cfg *config.Config) {
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error("Pool tune failed", err)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates tables, foreign keys and indexes.
func Migrate() error {
	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return err
	}
	logger.Success("All foreign key constraints created successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return err
	}
	logger.Success("All indexes created successfully")
	return nil
}

// autoMigrate runs auto migration for all models
func autoMigrate() error {
	stages := [][]interface{}{
		// Stage 1: Properties, catalog and staff
		{
			&property.Villa{},
			&property.Room{},
			&charge.MealPlan{},
			&charge.Transportation{},
			&charge.AdditionalCharge{},
			&special_period.SpecialPeriod{},
			&staff.Staff{},
			&setting.SystemSetting{},
		},
		// Stage 2: Bookings
		{
			&booking.Booking{},
		},
		// Stage 3: Models hanging off a booking
		{
			&booking.BookingStatusEvent{},
			&charge.BookingCharge{},
			&charge.BookingExtraCharge{},
			&invoice.Invoice{},
			&review.ReviewToken{},
			&review.Review{},
		},
		// Stage 4: Logging
		{
			&log.Log{},
		},
	}

	for _, stage := range stages {
		for _, model := range stage {
			if err := DB.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}
	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	indexes := []struct {
		name string
		sql  string
	}{
		// At most one invoice per booking
		{"idx_invoices_booking_id", "CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_booking_id ON invoices(booking_id)"},
		{"idx_invoices_invoice_date", "CREATE INDEX IF NOT EXISTS idx_invoices_invoice_date ON invoices(invoice_date)"},

		{"idx_bookings_status", "CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)"},
		{"idx_bookings_property", "CREATE INDEX IF NOT EXISTS idx_bookings_property ON bookings(property_type, property_id)"},
		{"idx_bookings_stay", "CREATE INDEX IF NOT EXISTS idx_bookings_stay ON bookings(check_in_date, check_out_date)"},

		{"idx_booking_charges_lookup", "CREATE INDEX IF NOT EXISTS idx_booking_charges_lookup ON booking_charges(booking_id, charge_type)"},
		{"idx_special_periods_active_range", "CREATE INDEX IF NOT EXISTS idx_special_periods_active_range ON special_periods(start_date, end_date) WHERE is_active"},

		{"idx_logs_method", "CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)"},
		{"idx_logs_status_code", "CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)"},
		{"idx_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
	}

	for _, idx := range indexes {
		if err := DB.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_invoices_booking",
			sql: `ALTER TABLE invoices ADD CONSTRAINT fk_invoices_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_invoice",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_invoice
				  FOREIGN KEY (invoice_id) REFERENCES invoices(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
		{
			name: "fk_booking_charges_booking",
			sql: `ALTER TABLE booking_charges ADD CONSTRAINT fk_booking_charges_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_booking_extra_charges_booking",
			sql: `ALTER TABLE booking_extra_charges ADD CONSTRAINT fk_booking_extra_charges_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_review_tokens_booking",
			sql: `ALTER TABLE review_tokens ADD CONSTRAINT fk_review_tokens_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_reviews_booking",
			sql: `ALTER TABLE reviews ADD CONSTRAINT fk_reviews_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		if err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error; err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if exists {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
			continue
		}
		if err := DB.Exec(constraint.sql).Error; err != nil {
			logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
		} else {
			logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
		}
	}
	return nil
}

// Close releases the connection pool.
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
