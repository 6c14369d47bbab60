package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string     `gorm:"not null;index" json:"name"`
	Description   string     `json:"description"`
	ProductTypeID *uuid.UUID `gorm:"type:uuid;index" json:"product_type_id,omitempty"`
	ProductType   *ProductType `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	BrandID       *uuid.UUID `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Brand         *Brand     `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	ModelID       *uuid.UUID `gorm:"type:uuid;index" json:"model_id,omitempty"`
	Model         *ProductModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`

	// CostPrice is the cost basis; nil until a cost is recorded or backfilled.
	// StorePrice and RoutePrice are derived from it by the pricing engine and
	// must never be written by any other code path.
	CostPrice  *float64 `json:"cost_price"`
	StorePrice float64  `gorm:"not null;default:0" json:"store_price"`
	RoutePrice float64  `gorm:"not null;default:0" json:"route_price"`

	Barcode       string         `json:"barcode"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	PhotoURL      string         `json:"photo_url"`
	Status        string         `gorm:"default:active" json:"status"`
	Notes         string         `json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
