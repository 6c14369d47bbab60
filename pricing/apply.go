package pricing

import (
	"errors"
	"math"

	"bodega-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductNotFound aborts the enclosing transaction when an apply targets
// a product that does not exist.
var ErrProductNotFound = errors.New("product not found for price update")

// ApplyToProduct recomputes and persists a product's store and route prices.
// It must run inside a caller-managed transaction: the product row is locked
// FOR UPDATE so concurrent applies on the same product serialize instead of
// writing conflicting prices.
//
// The cost to apply is explicitCost when given, else the product's stored
// cost. With no cost at all the existing prices are kept as-is, so a
// percentage-only change is a no-op for products with unknown cost rather
// than zeroing them out.
func ApplyToProduct(tx *gorm.DB, productID uuid.UUID, explicitCost *float64) error {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	cost := product.CostPrice
	if explicitCost != nil {
		cost = normalizeCost(*explicitCost)
	}

	percentages, err := ResolvePercentages(tx, &product.ID, product.ProductTypeID)
	if err != nil {
		return err
	}

	storePrice := product.StorePrice
	routePrice := product.RoutePrice
	if cost != nil {
		storePrice = RoundCurrency(*cost * (1 + percentages.Store/100))
		routePrice = RoundCurrency(*cost * (1 + percentages.Route/100))
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"cost_price":  cost,
			"store_price": storePrice,
			"route_price": routePrice,
		}).Error
}

// normalizeCost drops non-finite values so a bad explicit cost degrades to
// "no cost" instead of poisoning the stored prices.
func normalizeCost(value float64) *float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// Scope selects the products a repricing pass covers. The zero value means
// the whole catalog; otherwise exactly one of the fields is set.
type Scope struct {
	ProductID     *uuid.UUID
	ProductTypeID *uuid.UUID
}

// Reprice re-applies pricing to every product in scope, reusing each
// product's stored cost. It collects the affected ids first and then replays
// ApplyToProduct per product, all inside the caller's transaction, so a
// settings or override change and its fan-out commit or roll back together.
// Returns the number of products touched.
func Reprice(tx *gorm.DB, scope Scope) (int, error) {
	query := tx.Model(&models.Product{})
	switch {
	case scope.ProductID != nil:
		query = query.Where("id = ?", *scope.ProductID)
	case scope.ProductTypeID != nil:
		query = query.Where("product_type_id = ?", *scope.ProductTypeID)
	}

	var ids []uuid.UUID
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := ApplyToProduct(tx, id, nil); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
