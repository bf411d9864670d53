package auth

import (
	"errors"
	"log"

	"github.com/attendly/presence-backend/internal/config"
	"github.com/attendly/presence-backend/internal/db"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Init(cfg config.Config) {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}
	if err := db.DB.AutoMigrate(&User{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	// Bootstrap admin from env so a fresh deployment can log in.
	var existing User
	err := db.DB.First(&existing, "username = ?", cfg.AdminUser).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to look up admin user: ", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password: ", err)
	}
	admin := User{
		UserID:         uuid.New().String(),
		Username:       cfg.AdminUser,
		HashedPassword: string(hashed),
		Role:           "admin",
	}
	if err := db.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user: ", err)
	}
	log.Printf("Created bootstrap admin user %q", cfg.AdminUser)
}
