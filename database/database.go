package database

import (
	"fmt"
	"log"
	"os"

	"bodega-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=bodega port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ProductType{},
		&models.Brand{},
		&models.ProductModel{},
		&models.Product{},
		&models.PricingSettings{},
		&models.ProductPricingOverride{},
		&models.ProductTypePricingOverride{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderStatus{},
	); err != nil {
		return err
	}

	return seedOrderStatuses(db)
}

// seedOrderStatuses makes sure the three built-in purchase order statuses
// exist. Safe to run repeatedly.
func seedOrderStatuses(db *gorm.DB) error {
	defaults := []models.PurchaseOrderStatus{
		{Name: models.PurchaseOrderPending, Description: "Order placed, awaiting delivery", Position: 1},
		{Name: models.PurchaseOrderReceived, Description: "Goods received and stocked", Position: 2},
		{Name: models.PurchaseOrderCancelled, Description: "Order cancelled before delivery", Position: 3},
	}

	for _, status := range defaults {
		var existing models.PurchaseOrderStatus
		err := db.Where("name = ?", status.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		status.Active = true
		if err := db.Create(&status).Error; err != nil {
			return err
		}
	}
	return nil
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@bodega.local"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}
