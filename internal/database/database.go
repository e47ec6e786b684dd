package database

import (
	"time"

	"invertred/config"
	"invertred/internal/domain"
	"invertred/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.PaymentRecord{},
		&models.CommissionEntry{},
		&models.CommissionPayout{},
	)
}

// SeedAdmin creates the administrator account on first boot.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{ID: id, Email: cfg.Email, PasswordHash: string(hash)}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{
			ID:                 id,
			Name:               cfg.Name,
			Role:               domain.RoleAdmin,
			AccountType:        domain.AccountMember,
			PaymentStatus:      domain.StatusApproved,
			SubscriptionActive: true,
			ApprovedAt:         &now,
			ReferralCode:       "ADMIN" + id[:4],
		}).Error
	})
}
