// Package pricing implements the markup resolution and price application
// engine. Sale prices per channel (store and route) are derived from a cost
// basis through a three-tier hierarchy: global settings, a per-product-type
// override, and a per-product override, in increasing precedence. All price
// writes to products go through ApplyToProduct; no handler touches
// store_price or route_price directly.
package pricing

import (
	"errors"
	"math"

	"bodega-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Percentages is an effective markup pair after tier resolution.
type Percentages struct {
	Store float64 `json:"store_percent"`
	Route float64 `json:"route_percent"`
}

// RoundCurrency rounds to the smallest currency unit, half away from zero.
func RoundCurrency(value float64) float64 {
	return math.Round(value*100) / 100
}

// ResolvePercentages folds the three tiers into an effective markup pair.
// Each field resolves independently: an override row only replaces the
// fields it explicitly sets. Missing rows at any tier are a normal case;
// with no settings row at all the result is 0/0. db may be a transaction.
func ResolvePercentages(db *gorm.DB, productID, productTypeID *uuid.UUID) (Percentages, error) {
	var result Percentages

	var settings models.PricingSettings
	err := db.Order("updated_at DESC, id DESC").First(&settings).Error
	if err == nil {
		result.Store = settings.StorePercent
		result.Route = settings.RoutePercent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return result, err
	}

	if productTypeID != nil {
		var typeOverride models.ProductTypePricingOverride
		err := db.Where("product_type_id = ?", *productTypeID).First(&typeOverride).Error
		if err == nil {
			if typeOverride.StorePercent != nil {
				result.Store = *typeOverride.StorePercent
			}
			if typeOverride.RoutePercent != nil {
				result.Route = *typeOverride.RoutePercent
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}
	}

	if productID != nil {
		var productOverride models.ProductPricingOverride
		err := db.Where("product_id = ?", *productID).First(&productOverride).Error
		if err == nil {
			if productOverride.StorePercent != nil {
				result.Store = *productOverride.StorePercent
			}
			if productOverride.RoutePercent != nil {
				result.Route = *productOverride.RoutePercent
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}
	}

	return result, nil
}
