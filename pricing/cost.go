package pricing

import (
	"errors"

	"bodega-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FindLatestPurchaseCost looks up a product's cost basis in the purchase
// order history. Orders recorded against the exact product win; failing
// that, the most recent generic order (no product id) matching the
// product's type, brand and model is used. Brand and model compare
// null-safe: a generic order with no brand matches a product with no brand.
// A nil result with a nil error means no cost exists anywhere, which is a
// normal outcome and distinct from a recorded cost of zero.
func FindLatestPurchaseCost(db *gorm.DB, productID uuid.UUID, productTypeID, brandID, modelID *uuid.UUID) (*float64, error) {
	var order models.PurchaseOrder

	err := db.Where("cost_price IS NOT NULL AND product_id = ?", productID).
		Order("order_date DESC").
		First(&order).Error
	if err == nil {
		return order.CostPrice, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Generic orders identify goods by type; a product without a type can
	// never match one.
	if productTypeID == nil {
		return nil, nil
	}

	query := db.Where("cost_price IS NOT NULL AND product_id IS NULL AND product_type_id = ?", *productTypeID)
	if brandID != nil {
		query = query.Where("brand_id = ?", *brandID)
	} else {
		query = query.Where("brand_id IS NULL")
	}
	if modelID != nil {
		query = query.Where("model_id = ?", *modelID)
	} else {
		query = query.Where("model_id IS NULL")
	}

	err = query.Order("order_date DESC").First(&order).Error
	if err == nil {
		return order.CostPrice, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}
