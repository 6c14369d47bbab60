package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingSettings is the global default markup pair. Logically a singleton:
// readers take the most recent row and treat "no row" as 0/0. Rows are only
// ever written by the pricing settings endpoint, which locks the row first.
type PricingSettings struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StorePercent float64    `gorm:"not null;default:0" json:"store_percent"`
	RoutePercent float64    `gorm:"not null;default:0" json:"route_percent"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
}

// ProductPricingOverride pins markup percentages for a single product.
// Each field is independently optional: a nil percent falls through to the
// type override and then the global settings.
type ProductPricingOverride struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"product_id"`
	Product      *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	StorePercent *float64   `json:"store_percent"`
	RoutePercent *float64   `json:"route_percent"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
}

func (o *ProductPricingOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ProductTypePricingOverride is the middle tier: it applies to every product
// of the type unless a product-level override sets the same field.
type ProductTypePricingOverride struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductTypeID uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"product_type_id"`
	ProductType   *ProductType `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	StorePercent  *float64     `json:"store_percent"`
	RoutePercent  *float64     `json:"route_percent"`
	UpdatedAt     time.Time    `json:"updated_at"`
	UpdatedBy     *uuid.UUID   `gorm:"type:uuid" json:"updated_by,omitempty"`
}

func (o *ProductTypePricingOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
