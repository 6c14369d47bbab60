package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bodega-backend/events"
	"bodega-backend/models"
	"bodega-backend/pricing"
	"bodega-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricingHandler exposes the admin pricing API: global settings, the two
// override tiers, and the backfill job. Every write that changes effective
// percentages reprices the affected products inside the same transaction.
type PricingHandler struct {
	DB     *gorm.DB
	Events *events.Publisher
}

func (h *PricingHandler) publish(scope, scopeID string, products int) {
	h.Events.PublishReprice(context.Background(), events.RepriceEvent{
		Scope:      scope,
		ScopeID:    scopeID,
		Products:   products,
		OccurredAt: time.Now(),
	})
}

// GetSettings returns the current global percentages, zero when never set.
func (h *PricingHandler) GetSettings(c *gin.Context) {
	var settings models.PricingSettings
	err := h.DB.Order("updated_at DESC, id DESC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"store_percent": 0.0, "route_percent": 0.0})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings writes the global percentages and reprices the entire
// catalog in one transaction.
func (h *PricingHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		StorePercent *float64 `json:"store_percent" binding:"required"`
		RoutePercent *float64 `json:"route_percent" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if !utils.ValidPercent(req.StorePercent) || !utils.ValidPercent(req.RoutePercent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Percentages must be finite numbers between 0 and 1000"})
		return
	}

	tx := h.DB.Begin()

	// Lock the settings row so concurrent updates serialize
	var settings models.PricingSettings
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("updated_at DESC, id DESC").
		First(&settings).Error
	switch {
	case err == nil:
		settings.StorePercent = *req.StorePercent
		settings.RoutePercent = *req.RoutePercent
		settings.UpdatedBy = userIDFromContext(c)
		if err := tx.Save(&settings).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pricing settings"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = models.PricingSettings{
			StorePercent: *req.StorePercent,
			RoutePercent: *req.RoutePercent,
			UpdatedBy:    userIDFromContext(c),
		}
		if err := tx.Create(&settings).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pricing settings"})
			return
		}
	default:
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pricing settings"})
		return
	}

	count, err := pricing.Reprice(tx, pricing.Scope{})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reprice products"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pricing settings"})
		return
	}

	h.publish("global", "", count)
	c.JSON(http.StatusOK, gin.H{
		"settings":          settings,
		"products_repriced": count,
	})
}

// GetOverrides lists product overrides, optionally filtered by product name.
func (h *PricingHandler) GetOverrides(c *gin.Context) {
	var overrides []models.ProductPricingOverride
	query := h.DB.Preload("Product")

	if search := c.Query("search"); search != "" {
		query = query.Joins("JOIN products ON products.id = product_pricing_overrides.product_id").
			Where("LOWER(products.name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := query.Find(&overrides).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overrides"})
		return
	}

	c.JSON(http.StatusOK, overrides)
}

type overrideRequest struct {
	StorePercent *float64 `json:"store_percent"`
	RoutePercent *float64 `json:"route_percent"`
}

func (r *overrideRequest) validate() string {
	if r.StorePercent != nil && !utils.ValidPercent(r.StorePercent) {
		return "store_percent must be a finite number between 0 and 1000"
	}
	if r.RoutePercent != nil && !utils.ValidPercent(r.RoutePercent) {
		return "route_percent must be a finite number between 0 and 1000"
	}
	return ""
}

// UpsertOverride creates or replaces the product-level override and reprices
// that product. A nil field means "inherit from the type override or global
// settings" and is stored as NULL.
func (h *PricingHandler) UpsertOverride(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	tx := h.DB.Begin()

	// Existence check inside the transaction so a concurrent delete cannot
	// leave an override for a vanished product
	if err := tx.First(&models.Product{}, "id = ?", productID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	override := models.ProductPricingOverride{
		ProductID:    productID,
		StorePercent: req.StorePercent,
		RoutePercent: req.RoutePercent,
		UpdatedBy:    userIDFromContext(c),
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"store_percent", "route_percent", "updated_at", "updated_by"}),
	}).Create(&override).Error
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
		return
	}

	// On the conflict path the in-memory struct carries a freshly generated
	// id, not the stored row's; re-read before responding
	if err := tx.Where("product_id = ?", productID).First(&override).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
		return
	}

	count, err := pricing.Reprice(tx, pricing.Scope{ProductID: &productID})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reprice product"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
		return
	}

	h.publish("product", productID.String(), count)
	c.JSON(http.StatusOK, gin.H{
		"override":          override,
		"products_repriced": count,
	})
}

// DeleteOverride removes the product-level override so the product falls
// back to the type or global tier, and reprices it.
func (h *PricingHandler) DeleteOverride(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	tx := h.DB.Begin()

	if err := tx.First(&models.Product{}, "id = ?", productID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductPricingOverride{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete override"})
		return
	}

	count, err := pricing.Reprice(tx, pricing.Scope{ProductID: &productID})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reprice product"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete override"})
		return
	}

	h.publish("product", productID.String(), count)
	c.JSON(http.StatusOK, gin.H{
		"message":           "Override deleted",
		"products_repriced": count,
	})
}

// GetTypeOverrides lists the product-type tier.
func (h *PricingHandler) GetTypeOverrides(c *gin.Context) {
	var overrides []models.ProductTypePricingOverride
	if err := h.DB.Preload("ProductType").Find(&overrides).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch type overrides"})
		return
	}
	c.JSON(http.StatusOK, overrides)
}

// UpsertTypeOverride creates or replaces the type-level override and
// reprices every product of the type.
func (h *PricingHandler) UpsertTypeOverride(c *gin.Context) {
	typeID, err := uuid.Parse(c.Param("typeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product type ID"})
		return
	}

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	tx := h.DB.Begin()

	if err := tx.First(&models.ProductType{}, "id = ?", typeID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
		return
	}

	override := models.ProductTypePricingOverride{
		ProductTypeID: typeID,
		StorePercent:  req.StorePercent,
		RoutePercent:  req.RoutePercent,
		UpdatedBy:     userIDFromContext(c),
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_type_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"store_percent", "route_percent", "updated_at", "updated_by"}),
	}).Create(&override).Error
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save type override"})
		return
	}

	if err := tx.Where("product_type_id = ?", typeID).First(&override).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save type override"})
		return
	}

	count, err := pricing.Reprice(tx, pricing.Scope{ProductTypeID: &typeID})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reprice products"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save type override"})
		return
	}

	h.publish("product_type", typeID.String(), count)
	c.JSON(http.StatusOK, gin.H{
		"override":          override,
		"products_repriced": count,
	})
}

// DeleteTypeOverride removes the type-level override and reprices the
// type's products.
func (h *PricingHandler) DeleteTypeOverride(c *gin.Context) {
	typeID, err := uuid.Parse(c.Param("typeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product type ID"})
		return
	}

	tx := h.DB.Begin()

	if err := tx.First(&models.ProductType{}, "id = ?", typeID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
		return
	}

	if err := tx.Where("product_type_id = ?", typeID).Delete(&models.ProductTypePricingOverride{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete type override"})
		return
	}

	count, err := pricing.Reprice(tx, pricing.Scope{ProductTypeID: &typeID})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reprice products"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete type override"})
		return
	}

	h.publish("product_type", typeID.String(), count)
	c.JSON(http.StatusOK, gin.H{
		"message":           "Type override deleted",
		"products_repriced": count,
	})
}

// RunBackfill seeds missing costs and prices for the whole catalog.
// ?resilient=true records unexpected per-product errors as skips instead of
// aborting the run.
func (h *PricingHandler) RunBackfill(c *gin.Context) {
	mode := pricing.ModeStrict
	modeName := "strict"
	if c.Query("resilient") == "true" {
		mode = pricing.ModeResilient
		modeName = "resilient"
	}

	result, err := pricing.RunBackfill(h.DB, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backfill failed"})
		return
	}

	ranBy := ""
	if email, exists := c.Get("user_email"); exists {
		ranBy, _ = email.(string)
	}
	utils.Reports.SetReport(&utils.BackfillReport{
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		Mode:       modeName,
		RanBy:      ranBy,
		FinishedAt: time.Now(),
	})

	h.publish("backfill", "", result.Updated)
	c.JSON(http.StatusOK, result)
}

// GetBackfillReport returns the outcome of the most recent backfill run.
func (h *PricingHandler) GetBackfillReport(c *gin.Context) {
	report, ok := utils.Reports.GetReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No backfill has been run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}
