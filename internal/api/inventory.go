package api

import (
	"marketplace_backend/internal/domain" // Importing domain models
	"net/http"                            // HTTP status codes
	"strconv"                             // String conversion
	"time"                                // Timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// UpdateInventoryRequest represents an inventory upsert request. There is no
// negative-quantity guard; concurrent updates are last write wins.
type UpdateInventoryRequest struct {
	Quantity int `json:"quantity"` // New quantity on hand
}

// UpdateInventoryHandler upserts the inventory row for a product, stamping
// LastUpdated. The row is created when absent.
func UpdateInventoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var req UpdateInventoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var inventory domain.Inventory
		// Upsert: update the existing row or create a new one
		if err := db.Where("product_id = ?", productID).First(&inventory).Error; err != nil {
			inventory = domain.Inventory{
				ProductID:   uint(productID), // Link to the product
				Quantity:    req.Quantity,    // New quantity
				LastUpdated: time.Now(),      // Stamp the write
			}
			if err := db.Create(&inventory).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		} else {
			inventory.Quantity = req.Quantity
			inventory.LastUpdated = time.Now()
			if err := db.Save(&inventory).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		// The owning seller's cached counts are now stale. The product may be
		// missing (the upsert does not require it); then there is nothing to
		// invalidate.
		var product domain.Product
		if err := db.First(&product, "id = ?", productID).Error; err == nil {
			invalidateSellerReports(rdb, product.SellerID)
		}
		logrus.WithFields(logrus.Fields{
			"product_id": productID,
			"quantity":   req.Quantity,
		}).Info("Inventory updated")
		c.JSON(http.StatusOK, inventory)
	}
}

// GetInventoryHandler returns the inventory row for a product. Absence is a
// 404 here even though product views read it as quantity zero.
func GetInventoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inventory domain.Inventory
		if err := db.Where("product_id = ?", c.Param("productId")).First(&inventory).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "No inventory found."})
			return
		}
		c.JSON(http.StatusOK, inventory)
	}
}

// ListInventoriesHandler returns every inventory row with its product joined in
func ListInventoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inventories []domain.Inventory
		if err := db.Preload("Product").Find(&inventories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, inventories)
	}
}
