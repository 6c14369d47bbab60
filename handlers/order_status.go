package handlers

import (
	"net/http"

	"bodega-backend/models"
	"bodega-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderStatusHandler manages the operator-editable catalog of purchase order
// states. The three built-in names (pending, received, cancelled) are seeded
// at migration time and behave like any other entry.
type OrderStatusHandler struct {
	DB *gorm.DB
}

func (h *OrderStatusHandler) GetStatuses(c *gin.Context) {
	var statuses []models.PurchaseOrderStatus
	query := h.DB.Order("position ASC, name ASC")

	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	if err := query.Find(&statuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statuses"})
		return
	}

	c.JSON(http.StatusOK, statuses)
}

func (h *OrderStatusHandler) CreateStatus(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Position    *int   `json:"position"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var existing models.PurchaseOrderStatus
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A status with this name already exists"})
		return
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		// Append at the end of the list
		var maxPosition int
		h.DB.Model(&models.PurchaseOrderStatus{}).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition)
		position = maxPosition + 1
	}

	status := models.PurchaseOrderStatus{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		Position:    position,
	}

	if err := h.DB.Create(&status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create status"})
		return
	}

	c.JSON(http.StatusCreated, status)
}

func (h *OrderStatusHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var status models.PurchaseOrderStatus
	if err := h.DB.Where("id = ?", id).First(&status).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Status not found"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Active      *bool   `json:"active"`
		Position    *int    `json:"position"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{}

	if req.Name != nil && *req.Name != status.Name {
		var existing models.PurchaseOrderStatus
		if err := h.DB.Where("name = ?", *req.Name).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A status with this name already exists"})
			return
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.DB.Model(&status).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	h.DB.First(&status, "id = ?", status.ID)
	c.JSON(http.StatusOK, status)
}

// DeleteStatus removes a catalog entry unless purchase orders still
// reference it by name.
func (h *OrderStatusHandler) DeleteStatus(c *gin.Context) {
	id := c.Param("id")

	var status models.PurchaseOrderStatus
	if err := h.DB.Where("id = ?", id).First(&status).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Status not found"})
		return
	}

	var count int64
	if err := h.DB.Model(&models.PurchaseOrder{}).Where("status = ?", status.Name).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete status"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Status is still referenced by purchase orders"})
		return
	}

	if err := h.DB.Delete(&status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status deleted"})
}
