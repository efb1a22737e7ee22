package main

import (
	"fmt"
	"os"

	"villa-booking/config"
	"villa-booking/database"
	"villa-booking/database/seeders"
	"villa-booking/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate - Create or update the schema")
		fmt.Println("  go run tools/migrate.go seed    - Insert missing catalog entries and settings")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogDir, cfg.LogLevel)

	db, err := database.InitDB(cfg)
	if err != nil {
		fmt.Printf("❌ Database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	command := os.Args[1]

	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		if err := database.Migrate(); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	case "seed":
		fmt.Println("🌱 Seeding default data...")
		seeders.SeedChargeCatalog(db)
		seeders.SeedSettings(db, cfg)
		fmt.Println("✅ Seeding finished")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, seed")
	}
}
