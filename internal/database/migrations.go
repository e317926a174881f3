package database

import (
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.TravelerPreferences{},
		&models.Experience{},
		&models.Booking{},
		&models.BookingDispute{},
		&models.Payment{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.Favorite{},
		&models.Certification{},
		&models.Content{},
	)
	if err != nil {
		return err
	}

	// Update users table constraint for the marketplace roles
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('traveler', 'provider', 'admin'))`)
	}

	return nil
}
