package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fleet_maintenance/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB initializes the database connection using environment variables,
// runs migrations and seeds the checklist templates and default users.
func InitDB() {
	// 1) Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	var (
		db  *gorm.DB
		err error
	)

	// DB_DRIVER selects the backend: postgres (default) or sqlite for
	// small single-node deployments.
	switch getEnv("DB_DRIVER", "postgres") {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(getEnv("SQLITE_PATH", "data.sqlite")), &gorm.Config{})
	default:
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "postgres")
		password := getEnv("DB_PASSWORD", "password")
		dbname := getEnv("DB_NAME", "fleet")
		sslmode := getEnv("DB_SSLMODE", "disable")
		timezone := getEnv("DB_TIMEZONE", "UTC")

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := MigrateAll(db); err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}
	if err := SeedChecklistTemplates(db); err != nil {
		log.Fatalf("checklist template seeding failed: %v", err)
	}
	if err := SeedDefaultUsers(db); err != nil {
		log.Fatalf("default user seeding failed: %v", err)
	}

	// Assign to global
	DB = db
}

// MigrateAll applies the schema for every model. Exposed so tests can run it
// against their own store instance.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.ChecklistTemplate{},
		&models.ChecklistItem{},
		&models.MaintenanceRecord{},
		&models.MaintenanceRecordItem{},
		&models.Signature{},
	)
}

// SeedChecklistTemplates inserts the per-vehicle-type inspection templates.
// Idempotent: a store that already holds templates is left untouched, so the
// seeded set behaves as immutable configuration.
func SeedChecklistTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ChecklistTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tractor := models.ChecklistTemplate{
		VehicleType: models.UnitTypeTractor,
		Title:       "Tractor Major Systems",
		Items: []models.ChecklistItem{
			{ItemName: "Engine", Description: "Leaks, belts, hoses"},
			{ItemName: "Brakes", Description: "Pads, lines, air system"},
			{ItemName: "Tires/Wheels", Description: "Tread, pressure, lug nuts"},
			{ItemName: "Lights/Electrical", Description: "Headlights, turn signals, wiring"},
			{ItemName: "Suspension/Steering", Description: "Shocks, bushings, steering play"},
			{ItemName: "Fluids", Description: "Oil, coolant, brake fluid"},
			{ItemName: "Exhaust", Description: "Leaks, mounting"},
			{ItemName: "Cab/Interior", Description: "Horn, seat belts, mirrors"},
		},
	}
	trailer := models.ChecklistTemplate{
		VehicleType: models.UnitTypeTrailer,
		Title:       "Trailer Major Systems",
		Items: []models.ChecklistItem{
			{ItemName: "Coupling/Kingpin", Description: "Locking mechanism, wear"},
			{ItemName: "Landing Gear", Description: "Operation, damage"},
			{ItemName: "Brakes", Description: "Drums, lines"},
			{ItemName: "Tires/Wheels", Description: "Tread, pressure, lug nuts"},
			{ItemName: "Lights/Electrical", Description: "Marker, brake, wiring"},
			{ItemName: "Doors/Seals", Description: "Operation, damage"},
			{ItemName: "Frame/Crossmembers", Description: "Cracks, rust"},
			{ItemName: "Suspension", Description: "Springs, bushings"},
		},
	}

	if err := db.Create(&tractor).Error; err != nil {
		return err
	}
	return db.Create(&trailer).Error
}

// SeedDefaultUsers creates the bootstrap admin and driver accounts when they
// are missing.
func SeedDefaultUsers(db *gorm.DB) error {
	defaults := []struct {
		name, email, role, password string
	}{
		{"Admin", "admin@example.com", "admin", "admin123"},
		{"Driver", "driver@example.com", "driver", "driver123"},
	}
	for _, d := range defaults {
		var existing models.User
		err := db.Where("email = ?", d.email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{Name: d.name, Email: d.email, Role: d.role, PasswordHash: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
