package database

import (
	"fmt"
	"os"

	"room-booking/logger"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Employee indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_employees_email ON employees(email)").Error; err != nil {
		return fmt.Errorf("failed to create employee email index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_employees_role ON employees(role)").Error; err != nil {
		return fmt.Errorf("failed to create employee role index: %w", err)
	}

	// Room indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_rooms_floor_name ON rooms(floor, name)").Error; err != nil {
		return fmt.Errorf("failed to create room floor/name index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_rooms_capacity ON rooms(capacity)").Error; err != nil {
		return fmt.Errorf("failed to create room capacity index: %w", err)
	}

	// Booking indexes: the conflict check always filters by room, status and
	// window, so give it a compound index.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_room_status_window ON bookings(room_id, status, start_time, end_time)").Error; err != nil {
		return fmt.Errorf("failed to create booking conflict index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_owner_id ON bookings(owner_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking owner index: %w", err)
	}

	// Notification indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_employee_id ON notifications(employee_id)").Error; err != nil {
		return fmt.Errorf("failed to create notification employee index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
