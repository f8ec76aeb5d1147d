package database

import (
	"log"
	"os"
	"time"

	"chirp/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established.")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migrated successfully.")
}

// Migrate wires the follows join table to the user associations and runs
// the schema migrations. Split out so tests can run it against their own DB.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Following", &models.Follow{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "Followers", &models.Follow{}); err != nil {
		return err
	}
	return db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Notification{})
}
