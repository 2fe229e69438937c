package api

import (
	"marketplace_backend/internal/domain" // Importing domain models
	"net/http"                            // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateProductRequest represents a product creation request. Quantity is
// optional; when omitted the inventory row starts at zero.
type CreateProductRequest struct {
	SellerID    uint    `json:"sellerId"`    // Owning seller, required
	Title       string  `json:"title"`       // Listing title, required
	Description string  `json:"description"` // Listing description
	Price       float64 `json:"price"`       // Listing price, must not be negative
	Image       string  `json:"image"`       // Main image URL, required
	CategoryID  *uint   `json:"categoryId"`  // Optional category
	Quantity    int     `json:"quantity"`    // Optional initial quantity
}

// ProductView is a product annotated with its inventory quantity. An absent
// inventory row reads as zero.
type ProductView struct {
	domain.Product
	Quantity int `json:"quantity"` // Quantity on hand
}

// quantityByProduct batch-fetches the inventory rows for the given product ids
// and returns a productID -> quantity map for the in-memory join.
func quantityByProduct(db *gorm.DB, productIDs []uint) (map[uint]int, error) {
	quantities := make(map[uint]int, len(productIDs))
	if len(productIDs) == 0 {
		return quantities, nil
	}
	var inventories []domain.Inventory
	if err := db.Where("product_id IN ?", productIDs).Find(&inventories).Error; err != nil {
		return nil, err
	}
	for _, inv := range inventories {
		quantities[inv.ProductID] = inv.Quantity
	}
	return quantities, nil
}

// CreateProductHandler creates a product together with its zero-quantity
// inventory row in a single transaction, so a listing never exists without an
// inventory record.
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate required fields
		if req.SellerID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Seller ID is required"})
			return
		}
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		if req.Image == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
			return
		}
		if req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}
		product := domain.Product{
			SellerID:    req.SellerID,    // Owning seller
			Title:       req.Title,       // Listing title
			Description: req.Description, // Description
			Price:       req.Price,       // Price
			Image:       req.Image,       // Image URL
			CategoryID:  req.CategoryID,  // Category
			Visible:     true,            // New listings are visible
		}
		// Product and its inventory row are created atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err // Return error to rollback
			}
			inventory := domain.Inventory{
				ProductID: product.ID,   // Link to the new product
				Quantity:  req.Quantity, // Zero unless supplied
			}
			if err := tx.Create(&inventory).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"seller_id": req.SellerID,
				"error":     err.Error(),
			}).Error("Product creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// The seller's cached report views are now stale
		invalidateSellerReports(rdb, product.SellerID)
		logrus.WithFields(logrus.Fields{
			"seller_id":  product.SellerID,
			"product_id": product.ID,
		}).Info("Product created")
		c.JSON(http.StatusCreated, product)
	}
}

// ListProductsHandler returns all visible products, optionally filtered by
// seller, each annotated with its inventory quantity.
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Category").Preload("Seller").Where("visible = ?", true)
		// Optional seller filter
		if sellerID := c.Query("sellerId"); sellerID != "" {
			query = query.Where("seller_id = ?", sellerID)
		}
		var products []domain.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Batch-fetch quantities and join them in memory
		ids := make([]uint, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		quantities, err := quantityByProduct(db, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		views := make([]ProductView, len(products))
		for i, p := range products {
			views[i] = ProductView{Product: p, Quantity: quantities[p.ID]}
		}
		c.JSON(http.StatusOK, views)
	}
}

// GetProductHandler returns one visible product with its quantity
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := db.Preload("Category").Preload("Seller").
			Where("visible = ?", true).First(&product, "id = ?", c.Param("id")).Error; err != nil {
			// Hidden and missing products answer identically
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		var inventory domain.Inventory
		quantity := 0 // Absent inventory reads as zero
		if err := db.Where("product_id = ?", product.ID).First(&inventory).Error; err == nil {
			quantity = inventory.Quantity
		}
		c.JSON(http.StatusOK, ProductView{Product: product, Quantity: quantity})
	}
}

// UpdateProductRequest is the full-document update payload for PUT
type UpdateProductRequest struct {
	Title       string  `json:"title"`       // Listing title
	Description string  `json:"description"` // Description
	Price       float64 `json:"price"`       // Price
	Image       string  `json:"image"`       // Image URL
	CategoryID  *uint   `json:"categoryId"`  // Category
	IsAuction   bool    `json:"isAuction"`   // Auction flag
}

// UpdateProductHandler overwrites the mutable fields of a product. No
// per-field validation happens here; PUT is a full-document merge.
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		var req UpdateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Overwrite fields
		product.Title = req.Title
		product.Description = req.Description
		product.Price = req.Price
		product.Image = req.Image
		product.CategoryID = req.CategoryID
		product.IsAuction = req.IsAuction
		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invalidateSellerReports(rdb, product.SellerID)
		c.JSON(http.StatusOK, product)
	}
}

// patchableColumns maps the JSON field names a PATCH may touch to their
// database columns. Anything else in the payload is ignored.
var patchableColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"price":       "price",
	"image":       "image",
	"categoryId":  "category_id",
	"isAuction":   "is_auction",
	"visible":     "visible",
}

// PatchProductHandler merges the supplied fields into a product. This is also
// the auction toggle: PATCH {"isAuction": true}.
func PatchProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		var patch map[string]any // Partial update payload
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Keep only known fields, translated to column names
		updates := make(map[string]any, len(patch))
		for field, value := range patch {
			if column, ok := patchableColumns[field]; ok {
				updates[column] = value
			}
		}
		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		invalidateSellerReports(rdb, product.SellerID)
		c.JSON(http.StatusOK, product)
	}
}

// HideProductHandler takes a listing off the market without deleting it.
// Hidden products drop out of listings but stay available to order history
// and revenue reports.
func HideProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if err := db.Model(&product).Update("visible", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invalidateSellerReports(rdb, product.SellerID)
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID,
		}).Info("Product hidden")
		c.JSON(http.StatusOK, gin.H{"message": "Product hidden", "product": product})
	}
}

// DeleteProductHandler removes a product and its inventory row in a single
// transaction, so no orphaned inventory is left behind.
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&product).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&domain.Inventory{}).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": product.ID,
				"error":      err.Error(),
			}).Error("Product deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invalidateSellerReports(rdb, product.SellerID)
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID,
		}).Info("Product and inventory deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Product and inventory deleted"})
	}
}
