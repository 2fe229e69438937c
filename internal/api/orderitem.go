package api

import (
	"marketplace_backend/internal/domain" // Importing domain models
	"net/http"                            // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateOrderItemRequest represents an order line creation request. UnitPrice
// defaults to the product's live price when omitted; from then on the two are
// decoupled.
type CreateOrderItemRequest struct {
	OrderID   uint    `json:"orderId" binding:"required"`   // Parent order
	ProductID uint    `json:"productId" binding:"required"` // Purchased product
	Quantity  int     `json:"quantity" binding:"required"`  // Quantity purchased
	UnitPrice float64 `json:"unitPrice"`                    // Optional captured price
}

// CreateOrderItemHandler attaches a line item to an existing order
func CreateOrderItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var order domain.Order // The parent order must exist
		if err := db.First(&order, req.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		var product domain.Product // The referenced product must exist
		if err := db.First(&product, req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		// Capture the current price unless the caller supplied one
		unitPrice := req.UnitPrice
		if unitPrice == 0 {
			unitPrice = product.Price
		}
		item := domain.OrderItem{
			OrderID:   req.OrderID,   // Parent order
			ProductID: req.ProductID, // Product
			Quantity:  req.Quantity,  // Quantity
			UnitPrice: unitPrice,     // Captured price
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Both ends of the sale have stale report caches now
		invalidateBuyerReports(rdb, order.BuyerID)
		invalidateSellerReports(rdb, product.SellerID)
		logrus.WithFields(logrus.Fields{
			"order_id":   item.OrderID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		}).Info("Order item created")
		c.JSON(http.StatusCreated, item)
	}
}

// ListOrderItemsHandler returns every order item with its product joined in
func ListOrderItemsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []domain.OrderItem
		if err := db.Preload("Product").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// SellerOrderItemsHandler returns the order items referencing a seller's
// products, joined via a batch product fetch.
func SellerOrderItemsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []domain.Product // The seller's products
		if err := db.Where("seller_id = ?", c.Param("sellerId")).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		productIDs := make([]uint, len(products))
		for i, p := range products {
			productIDs[i] = p.ID
		}
		items := []domain.OrderItem{}
		if len(productIDs) > 0 {
			if err := db.Preload("Product").Where("product_id IN ?", productIDs).Find(&items).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, items)
	}
}

// UpdateOrderItemRequest represents an order line update
type UpdateOrderItemRequest struct {
	Quantity  int     `json:"quantity"`  // New quantity
	UnitPrice float64 `json:"unitPrice"` // New captured price
}

// UpdateOrderItemHandler rewrites an order line's quantity and captured price
func UpdateOrderItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.OrderItem
		if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order item not found"})
			return
		}
		var req UpdateOrderItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		item.Quantity = req.Quantity
		item.UnitPrice = req.UnitPrice
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invalidateReportsForItem(db, rdb, &item)
		c.JSON(http.StatusOK, item)
	}
}

// DeleteOrderItemHandler removes an order line
func DeleteOrderItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.OrderItem
		if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order item not found"})
			return
		}
		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invalidateReportsForItem(db, rdb, &item)
		logrus.WithFields(logrus.Fields{
			"order_item_id": item.ID,
		}).Info("Order item deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Order item deleted"})
	}
}

// invalidateReportsForItem drops the cached report views on both sides of an
// order line. Failures to resolve either side are ignored; the caches expire
// on their own.
func invalidateReportsForItem(db *gorm.DB, rdb *redis.Client, item *domain.OrderItem) {
	var order domain.Order
	if err := db.First(&order, item.OrderID).Error; err == nil {
		invalidateBuyerReports(rdb, order.BuyerID)
	}
	var product domain.Product
	if err := db.First(&product, item.ProductID).Error; err == nil {
		invalidateSellerReports(rdb, product.SellerID)
	}
}
