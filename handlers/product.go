package handlers

import (
	"errors"
	"log"
	"net/http"

	"bodega-backend/firebase"
	"bodega-backend/models"
	"bodega-backend/pricing"
	"bodega-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var products []models.Product
	query := h.DB.Preload("ProductType").Preload("Brand").Preload("Model")

	if typeID := c.Query("product_type_id"); typeID != "" {
		query = query.Where("product_type_id = ?", typeID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	var product models.Product

	if err := h.DB.Preload("ProductType").Preload("Brand").Preload("Model").
		Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`
	BrandID       *uuid.UUID `json:"brand_id"`
	ModelID       *uuid.UUID `json:"model_id"`
	CostPrice     *float64   `json:"cost_price"`
	Barcode       string     `json:"barcode"`
	StockQuantity int        `json:"stock_quantity"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
}

func (h *ProductHandler) validateCatalogRefs(req *productRequest) (int, string) {
	if req.ProductTypeID != nil {
		if err := h.DB.First(&models.ProductType{}, "id = ?", *req.ProductTypeID).Error; err != nil {
			return http.StatusBadRequest, "Invalid product type"
		}
	}
	if req.BrandID != nil {
		if err := h.DB.First(&models.Brand{}, "id = ?", *req.BrandID).Error; err != nil {
			return http.StatusBadRequest, "Invalid brand"
		}
	}
	if req.ModelID != nil {
		if err := h.DB.First(&models.ProductModel{}, "id = ?", *req.ModelID).Error; err != nil {
			return http.StatusBadRequest, "Invalid model"
		}
	}
	return 0, ""
}

// CreateProduct inserts the product and immediately runs it through the
// pricing engine in the same transaction, so a product with a known cost
// never exists with unpriced channels.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if status, msg := h.validateCatalogRefs(&req); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	product := models.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		ProductTypeID: req.ProductTypeID,
		BrandID:       req.BrandID,
		ModelID:       req.ModelID,
		Barcode:       req.Barcode,
		StockQuantity: req.StockQuantity,
		Notes:         req.Notes,
		Status:        req.Status,
	}
	if product.Status == "" {
		product.Status = "active"
	}

	tx := h.DB.Begin()

	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	if err := pricing.ApplyToProduct(tx, product.ID, req.CostPrice); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price product"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.DB.Preload("ProductType").Preload("Brand").Preload("Model").First(&product, "id = ?", product.ID)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits catalog attributes and reprices through the engine.
// cost_price in the body is treated as an explicit new cost; omitting it
// keeps the stored cost and just reapplies the current percentages.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if status, msg := h.validateCatalogRefs(&req); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	tx := h.DB.Begin()

	updates := map[string]interface{}{
		"name":            req.Name,
		"description":     req.Description,
		"product_type_id": req.ProductTypeID,
		"brand_id":        req.BrandID,
		"model_id":        req.ModelID,
		"barcode":         req.Barcode,
		"stock_quantity":  req.StockQuantity,
		"notes":           req.Notes,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if err := pricing.ApplyToProduct(tx, id, req.CostPrice); err != nil {
		tx.Rollback()
		if errors.Is(err, pricing.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price product"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.DB.Preload("ProductType").Preload("Brand").Preload("Model").First(&product, "id = ?", id)
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	tx := h.DB.Begin()

	// Remove the product's pricing override along with the product
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductPricingOverride{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if err := tx.Delete(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *ProductHandler) UploadPhoto(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return
	}
	defer file.Close()

	url, err := h.Storage.UploadProductPhoto(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	oldURL := product.PhotoURL
	if err := h.DB.Model(&product).Update("photo_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo URL"})
		return
	}

	// Best-effort cleanup of the replaced photo
	if oldURL != "" {
		if objectPath, err := utils.ExtractObjectPath(oldURL); err == nil {
			if err := h.Storage.DeleteFile(objectPath); err != nil {
				log.Printf("Failed to delete old photo %s: %v", objectPath, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
