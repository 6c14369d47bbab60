package pricing

import (
	"fmt"
	"math"

	"bodega-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchMode controls how the backfill reacts to an unexpected per-product
// failure. Expected missing-cost cases are always recorded as skips; the
// mode only governs real errors (storage failures, bad data).
type BatchMode int

const (
	// ModeStrict aborts the whole pass on the first unexpected error,
	// rolling back every product already updated.
	ModeStrict BatchMode = iota
	// ModeResilient records the failure as a skip with the error text as
	// the reason and keeps processing the remaining products.
	ModeResilient
)

type SkippedProduct struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Reason      string    `json:"reason"`
}

type BackfillResult struct {
	Updated int              `json:"updated"`
	Skipped []SkippedProduct `json:"skipped"`
}

// RunBackfill seeds or repairs cost and price data for the whole catalog in
// one transaction. Per product the cost is taken from, in order: the stored
// cost, the purchase-order history, a reverse derivation from a positive
// store price, and a reverse derivation from a positive route price. A
// product with no usable cost is reported as skipped and left untouched.
func RunBackfill(db *gorm.DB, mode BatchMode) (*BackfillResult, error) {
	result := &BackfillResult{Skipped: []SkippedProduct{}}

	err := db.Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Order("name ASC").Find(&products).Error; err != nil {
			return err
		}

		for _, product := range products {
			var err error
			if mode == ModeResilient {
				// On postgres a failed statement aborts the surrounding
				// transaction, so each product runs under its own savepoint.
				// Rolling back the savepoint keeps the pass usable.
				err = tx.Transaction(func(inner *gorm.DB) error {
					return backfillProduct(inner, product, result)
				})
			} else {
				err = backfillProduct(tx, product, result)
			}
			if err != nil {
				if mode == ModeResilient {
					result.Skipped = append(result.Skipped, SkippedProduct{
						ProductID:   product.ID,
						ProductName: product.Name,
						Reason:      fmt.Sprintf("unexpected error: %v", err),
					})
					continue
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func backfillProduct(tx *gorm.DB, product models.Product, result *BackfillResult) error {
	percentages, err := ResolvePercentages(tx, &product.ID, product.ProductTypeID)
	if err != nil {
		return err
	}

	cost := product.CostPrice
	if cost == nil {
		cost, err = FindLatestPurchaseCost(tx, product.ID, product.ProductTypeID, product.BrandID, product.ModelID)
		if err != nil {
			return err
		}
	}

	if invalidCost(cost) && product.StorePrice > 0 {
		derived := RoundCurrency(product.StorePrice / (1 + percentages.Store/100))
		cost = &derived
	}
	if invalidCost(cost) && product.RoutePrice > 0 {
		derived := RoundCurrency(product.RoutePrice / (1 + percentages.Route/100))
		cost = &derived
	}

	if invalidCost(cost) || *cost <= 0 {
		result.Skipped = append(result.Skipped, SkippedProduct{
			ProductID:   product.ID,
			ProductName: product.Name,
			Reason:      "no cost data from purchase orders or positive existing prices",
		})
		return nil
	}

	storePrice := RoundCurrency(*cost * (1 + percentages.Store/100))
	routePrice := RoundCurrency(*cost * (1 + percentages.Route/100))

	err = tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"cost_price":  *cost,
			"store_price": storePrice,
			"route_price": routePrice,
		}).Error
	if err != nil {
		return err
	}

	result.Updated++
	return nil
}

func invalidCost(cost *float64) bool {
	return cost == nil || math.IsNaN(*cost) || math.IsInf(*cost, 0)
}
