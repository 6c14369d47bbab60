package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY, "email" TEXT NOT NULL UNIQUE, "password" TEXT NOT NULL,
			"name" TEXT, "last_name" TEXT, "role" TEXT DEFAULT 'seller', "phone" TEXT,
			"is_active" INTEGER DEFAULT 1, "created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "product_types" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL UNIQUE, "description" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL, "description" TEXT,
			"product_type_id" TEXT, "brand_id" TEXT, "model_id" TEXT,
			"cost_price" REAL, "store_price" REAL NOT NULL DEFAULT 0, "route_price" REAL NOT NULL DEFAULT 0,
			"barcode" TEXT, "stock_quantity" INTEGER DEFAULT 0, "photo_url" TEXT,
			"status" TEXT DEFAULT 'active', "notes" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "product_pricing_overrides" (
			"id" TEXT PRIMARY KEY, "product_id" TEXT NOT NULL UNIQUE,
			"store_percent" REAL, "route_percent" REAL, "updated_at" DATETIME, "updated_by" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS "purchase_orders" (
			"id" TEXT PRIMARY KEY, "product_id" TEXT, "product_type_id" TEXT, "brand_id" TEXT,
			"model_id" TEXT, "supplier" TEXT NOT NULL, "quantity" INTEGER NOT NULL,
			"cost_price" REAL, "order_date" DATETIME NOT NULL, "expected_date" DATETIME,
			"received_date" DATETIME, "status" TEXT DEFAULT 'pending', "requested_by" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestUserBeforeCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)

	user := User{Email: "hook@test.com", Password: "hashed"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	if user.ID == uuid.Nil {
		t.Error("expected BeforeCreate to assign an id")
	}
}

func TestUserBeforeCreateKeepsExplicitID(t *testing.T) {
	db := setupTestDB(t)

	id := uuid.New()
	user := User{ID: id, Email: "explicit@test.com", Password: "hashed"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	if user.ID != id {
		t.Errorf("expected id kept, got %s", user.ID)
	}
}

func TestUserFullName(t *testing.T) {
	u := User{Name: "Ana", LastName: "Reyes"}
	if got := u.FullName(); got != "Ana Reyes" {
		t.Errorf("expected 'Ana Reyes', got %q", got)
	}

	u = User{Name: "Ana"}
	if got := u.FullName(); got != "Ana" {
		t.Errorf("expected 'Ana', got %q", got)
	}
}

func TestProductBeforeCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)

	product := Product{Name: "Cylinder", Status: "active"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	if product.ID == uuid.Nil {
		t.Error("expected BeforeCreate to assign an id")
	}
}

func TestPurchaseOrderDefaultsOrderDate(t *testing.T) {
	db := setupTestDB(t)

	order := PurchaseOrder{Supplier: "Acme", Quantity: 1, Status: PurchaseOrderPending}
	if err := db.Create(&order).Error; err != nil {
		t.Fatal(err)
	}
	if order.OrderDate.IsZero() {
		t.Error("expected order date defaulted to now")
	}
	if time.Since(order.OrderDate) > time.Minute {
		t.Errorf("expected recent order date, got %v", order.OrderDate)
	}
}

func TestPurchaseOrderKeepsExplicitOrderDate(t *testing.T) {
	db := setupTestDB(t)

	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	order := PurchaseOrder{Supplier: "Acme", Quantity: 1, OrderDate: when, Status: PurchaseOrderPending}
	if err := db.Create(&order).Error; err != nil {
		t.Fatal(err)
	}
	if !order.OrderDate.Equal(when) {
		t.Errorf("expected explicit order date kept, got %v", order.OrderDate)
	}
}

func TestProductPricingOverrideBeforeCreate(t *testing.T) {
	db := setupTestDB(t)

	override := ProductPricingOverride{ProductID: uuid.New()}
	if err := db.Create(&override).Error; err != nil {
		t.Fatal(err)
	}
	if override.ID == uuid.Nil {
		t.Error("expected BeforeCreate to assign an id")
	}
}
