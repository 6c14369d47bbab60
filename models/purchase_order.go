package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PurchaseOrderPending   = "pending"
	PurchaseOrderReceived  = "received"
	PurchaseOrderCancelled = "cancelled"
)

// PurchaseOrder is an order placed with a supplier. Orders placed for a
// specific catalog product carry its id; generic orders leave ProductID nil
// and identify the goods by type, brand and model instead. Rows with a
// recorded CostPrice double as the cost-history source for the pricing engine.
type PurchaseOrder struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID     *uuid.UUID    `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Product       *Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductTypeID *uuid.UUID    `gorm:"type:uuid;index" json:"product_type_id,omitempty"`
	BrandID       *uuid.UUID    `gorm:"type:uuid" json:"brand_id,omitempty"`
	ModelID       *uuid.UUID    `gorm:"type:uuid" json:"model_id,omitempty"`
	Supplier      string        `gorm:"not null" json:"supplier"`
	Quantity      int           `gorm:"not null" json:"quantity"`
	CostPrice     *float64      `json:"cost_price"`
	OrderDate     time.Time     `gorm:"not null;index" json:"order_date"`
	ExpectedDate  *time.Time    `json:"expected_date,omitempty"`
	ReceivedDate  *time.Time    `json:"received_date,omitempty"`
	Status        string        `gorm:"default:pending;index" json:"status"`
	RequestedBy   *uuid.UUID    `gorm:"type:uuid" json:"requested_by,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.OrderDate.IsZero() {
		p.OrderDate = time.Now()
	}
	return nil
}

// PurchaseOrderStatus is the operator-managed catalog of order states shown
// in the back office. The three built-in state names above always exist.
type PurchaseOrderStatus struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	Position    int       `gorm:"default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}
