package routes

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"bodega-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type mockStorage struct{}

func (m *mockStorage) UploadProductPhoto(file multipart.File, filename, contentType string) (string, error) {
	return "", nil
}
func (m *mockStorage) DeleteFile(objectPath string) error { return nil }

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-for-routes")
}

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
		`CREATE TABLE IF NOT EXISTS "pricing_settings" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT, "store_percent" REAL NOT NULL DEFAULT 0,
			"route_percent" REAL NOT NULL DEFAULT 0, "updated_at" DATETIME, "updated_by" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS "purchase_orders" (
			"id" TEXT PRIMARY KEY, "product_id" TEXT, "product_type_id" TEXT, "brand_id" TEXT,
			"model_id" TEXT, "supplier" TEXT NOT NULL, "quantity" INTEGER NOT NULL,
			"cost_price" REAL, "order_date" DATETIME NOT NULL, "expected_date" DATETIME,
			"received_date" DATETIME, "status" TEXT DEFAULT 'pending', "requested_by" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "purchase_order_statuses" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT NOT NULL UNIQUE,
			"description" TEXT, "active" INTEGER DEFAULT 1, "position" INTEGER DEFAULT 0,
			"created_at" DATETIME
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db := setupTestDB(t)
	r := gin.New()
	SetupRoutes(r, db, &mockStorage{}, nil, nil)
	return r, db
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/products", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRouteBlocksNonAdmin(t *testing.T) {
	r, _ := setupRouter(t)
	token, _ := utils.GenerateToken(uuid.New(), "seller@test.com", "seller")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/pricing/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRouteAllowsAdmin(t *testing.T) {
	r, _ := setupRouter(t)
	token, _ := utils.GenerateToken(uuid.New(), "admin@test.com", "admin")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/pricing/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
