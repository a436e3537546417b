package database

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"satmine/models"
)

// Migrate runs AutoMigrate for every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.TaskState{},
		&models.Transaction{},
		&models.Admin{},
	)
}

// SeedAdmin creates the initial admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD when no admin row exists yet. Without those env vars the
// moderation surface stays unreachable until an admin is created by hand.
func SeedAdmin(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Printf("[database] ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.Admin
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Admin{Username: username, Password: string(hashed), IsActive: true}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("[database] seeded admin account: %s", username)
	return nil
}
