package handlers

import (
	"math"
	"net/http"
	"time"

	"bodega-backend/models"
	"bodega-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderHandler manages supplier orders. Orders with a recorded cost
// are the cost-history input for the pricing engine, so costs are validated
// on the way in and never mutated by the engine afterwards.
type PurchaseOrderHandler struct {
	DB *gorm.DB
}

func (h *PurchaseOrderHandler) GetOrders(c *gin.Context) {
	var orders []models.PurchaseOrder
	query := h.DB.Preload("Product")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if productID := c.Query("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if supplier := c.Query("supplier"); supplier != "" {
		query = query.Where("LOWER(supplier) LIKE LOWER(?)", "%"+supplier+"%")
	}

	if err := query.Order("order_date DESC").Limit(100).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	var order models.PurchaseOrder

	if err := h.DB.Preload("Product").Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func validCost(cost *float64) bool {
	if cost == nil {
		return true
	}
	return !math.IsNaN(*cost) && !math.IsInf(*cost, 0) && *cost >= 0
}

func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	var req struct {
		ProductID     *uuid.UUID `json:"product_id"`
		ProductTypeID *uuid.UUID `json:"product_type_id"`
		BrandID       *uuid.UUID `json:"brand_id"`
		ModelID       *uuid.UUID `json:"model_id"`
		Supplier      string     `json:"supplier" binding:"required"`
		Quantity      int        `json:"quantity" binding:"required,min=1"`
		CostPrice     *float64   `json:"cost_price"`
		OrderDate     *time.Time `json:"order_date"`
		ExpectedDate  *time.Time `json:"expected_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.ProductID == nil && req.ProductTypeID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either product_id or product_type_id is required"})
		return
	}
	if !validCost(req.CostPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost_price must be a finite non-negative number"})
		return
	}

	if req.ProductID != nil {
		if err := h.DB.First(&models.Product{}, "id = ?", *req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		// One open order per product at a time
		var pending models.PurchaseOrder
		err := h.DB.Where("product_id = ? AND status = ?", *req.ProductID, models.PurchaseOrderPending).
			First(&pending).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A pending purchase order already exists for this product"})
			return
		}
	}
	if req.ProductTypeID != nil {
		if err := h.DB.First(&models.ProductType{}, "id = ?", *req.ProductTypeID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
			return
		}
	}

	order := models.PurchaseOrder{
		ID:            uuid.New(),
		ProductID:     req.ProductID,
		ProductTypeID: req.ProductTypeID,
		BrandID:       req.BrandID,
		ModelID:       req.ModelID,
		Supplier:      req.Supplier,
		Quantity:      req.Quantity,
		CostPrice:     req.CostPrice,
		ExpectedDate:  req.ExpectedDate,
		Status:        models.PurchaseOrderPending,
		RequestedBy:   userIDFromContext(c),
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}

	if err := h.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// UpdateOrder applies a partial update. Setting status to received without a
// received date stamps the current time.
func (h *PurchaseOrderHandler) UpdateOrder(c *gin.Context) {
	id := c.Param("id")

	var order models.PurchaseOrder
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}

	var req struct {
		Status       *string    `json:"status"`
		Supplier     *string    `json:"supplier"`
		Quantity     *int       `json:"quantity"`
		CostPrice    *float64   `json:"cost_price"`
		ExpectedDate *time.Time `json:"expected_date"`
		ReceivedDate *time.Time `json:"received_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{}

	if req.Status != nil {
		var status models.PurchaseOrderStatus
		err := h.DB.Where("name = ? AND active = ?", *req.Status, true).First(&status).Error
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or inactive status"})
			return
		}
		updates["status"] = *req.Status

		if *req.Status == models.PurchaseOrderReceived && req.ReceivedDate == nil && order.ReceivedDate == nil {
			updates["received_date"] = time.Now()
		}
	}
	if req.Supplier != nil {
		updates["supplier"] = *req.Supplier
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
			return
		}
		updates["quantity"] = *req.Quantity
	}
	if req.CostPrice != nil {
		if !validCost(req.CostPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cost_price must be a finite non-negative number"})
			return
		}
		updates["cost_price"] = *req.CostPrice
	}
	if req.ExpectedDate != nil {
		updates["expected_date"] = *req.ExpectedDate
	}
	if req.ReceivedDate != nil {
		updates["received_date"] = *req.ReceivedDate
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.DB.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase order"})
		return
	}

	h.DB.Preload("Product").First(&order, "id = ?", order.ID)
	c.JSON(http.StatusOK, order)
}

func (h *PurchaseOrderHandler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")

	var order models.PurchaseOrder
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}

	if order.Status != models.PurchaseOrderPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending purchase orders can be deleted"})
		return
	}

	if err := h.DB.Delete(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase order deleted"})
}

func userIDFromContext(c *gin.Context) *uuid.UUID {
	raw, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
