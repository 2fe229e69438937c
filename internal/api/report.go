package api

import (
	"context"                             // Context for Redis operations
	"marketplace_backend/internal/domain" // Importing domain models
	"marketplace_backend/internal/utils"  // Utility functions
	"net/http"                            // HTTP status codes
	"strconv"                             // String conversion
	"time"                                // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// reportCacheTTL bounds how stale a cached report view may get
const reportCacheTTL = 60 * time.Second

// sellerReportPrefix is the cache key prefix for a seller's report views
func sellerReportPrefix(sellerID uint) string {
	return "report:seller:" + strconv.Itoa(int(sellerID)) + ":"
}

// buyerReportPrefix is the cache key prefix for a buyer's report views
func buyerReportPrefix(buyerID uint) string {
	return "report:buyer:" + strconv.Itoa(int(buyerID)) + ":"
}

// invalidateSellerReports drops every cached report view for a seller after a
// write touched their products, inventory or sales.
func invalidateSellerReports(rdb *redis.Client, sellerID uint) {
	if rdb == nil {
		return
	}
	_ = utils.DeleteCacheByPrefix(context.Background(), rdb, sellerReportPrefix(sellerID))
}

// invalidateBuyerReports drops every cached report view for a buyer after
// their order items changed.
func invalidateBuyerReports(rdb *redis.Client, buyerID uint) {
	if rdb == nil {
		return
	}
	_ = utils.DeleteCacheByPrefix(context.Background(), rdb, buyerReportPrefix(buyerID))
}

// SellerOnSaleHandler returns a seller's visible products annotated with
// their inventory quantities, joined in memory from a batch inventory fetch.
func SellerOnSaleHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.Param("sellerId")
		ctx := context.Background() // Use background context for Redis
		cacheKey := "report:seller:" + sellerID + ":on-sale"
		// Try to get cached response
		var cached struct {
			Products []ProductView `json:"products"` // Products with quantities
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"products": cached.Products, // Products with quantities
				"cached":   true,            // Indicate response is from cache
			})
			return
		}
		var products []domain.Product // Seller's visible products
		if err := db.Where("seller_id = ? AND visible = ?", sellerID, true).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Build the productID -> quantity map from one batch fetch
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
		respData := gin.H{
			"products": views, // Products with quantities
			"cached":   false, // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, reportCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// SellerTotalOnSaleHandler counts a seller's distinct products that are
// actually on sale, i.e. visible with a positive inventory quantity. A
// zero-quantity listing does not count.
func SellerTotalOnSaleHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.Param("sellerId")
		ctx := context.Background() // Use background context for Redis
		cacheKey := "report:seller:" + sellerID + ":total-on-sale"
		var cached struct {
			TotalDistinctProducts int `json:"totalDistinctProducts"` // Cached count
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"totalDistinctProducts": cached.TotalDistinctProducts, // Count of stocked products
				"cached":                true,                         // Indicate response is from cache
			})
			return
		}
		var products []domain.Product // Seller's visible products
		if err := db.Where("seller_id = ? AND visible = ?", sellerID, true).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ids := make([]uint, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		quantities, err := quantityByProduct(db, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Count products with stock on hand
		total := 0
		for _, quantity := range quantities {
			if quantity > 0 {
				total++
			}
		}
		respData := gin.H{
			"totalDistinctProducts": total, // Count of stocked products
			"cached":                false, // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, reportCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// PurchasedItem is one line of a purchase history entry
type PurchasedItem struct {
	Quantity  int            `json:"quantity"`  // Quantity purchased
	UnitPrice float64        `json:"unitPrice"` // Effective price per unit
	Product   domain.Product `json:"product"`   // Product details
}

// PurchasedOrder is a per-order summary of a buyer's purchase history
type PurchasedOrder struct {
	OrderID       uint            `json:"orderId"`       // Order ID
	OrderDate     time.Time       `json:"orderDate"`     // When the order was placed
	Status        string          `json:"status"`        // Order status
	TotalQuantity int             `json:"totalQuantity"` // Sum of item quantities
	TotalPrice    float64         `json:"totalPrice"`    // Sum of unitPrice x quantity
	Image         string          `json:"image"`         // First item's product image
	Items         []PurchasedItem `json:"items"`         // Line items with product details
}

// effectiveUnitPrice falls back to the live product price when the captured
// unit price was never recorded.
func effectiveUnitPrice(item domain.OrderItem, product domain.Product) float64 {
	if item.UnitPrice > 0 {
		return item.UnitPrice
	}
	return product.Price
}

// BuyerPurchasedHandler assembles a buyer's purchase history with a
// three-stage in-memory join: orders -> order items -> products.
func BuyerPurchasedHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.Param("buyerId")
		ctx := context.Background() // Use background context for Redis
		cacheKey := "report:buyer:" + buyerID + ":purchased-products"
		var cached struct {
			Orders []PurchasedOrder `json:"orders"` // Per-order summaries
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"orders": cached.Orders, // Per-order summaries
				"cached": true,          // Indicate response is from cache
			})
			return
		}
		// Stage 1: the buyer's orders
		var orders []domain.Order
		if err := db.Where("buyer_id = ?", buyerID).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		orderIDs := make([]uint, len(orders))
		for i, order := range orders {
			orderIDs[i] = order.ID
		}
		// Stage 2: every item of those orders
		var items []domain.OrderItem
		if len(orderIDs) > 0 {
			if err := db.Where("order_id IN ?", orderIDs).Find(&items).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		itemsByOrder := make(map[uint][]domain.OrderItem, len(orders))
		productIDs := make([]uint, 0, len(items))
		for _, item := range items {
			itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
			productIDs = append(productIDs, item.ProductID)
		}
		// Stage 3: the referenced products (hidden ones included; history
		// outlives the listing)
		productByID := make(map[uint]domain.Product, len(productIDs))
		if len(productIDs) > 0 {
			var products []domain.Product
			if err := db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			for _, p := range products {
				productByID[p.ID] = p
			}
		}
		// Assemble the per-order summaries
		history := make([]PurchasedOrder, 0, len(orders))
		for _, order := range orders {
			entry := PurchasedOrder{
				OrderID:   order.ID,        // Order ID
				OrderDate: order.OrderDate, // Order date
				Status:    order.Status,    // Order status
				Items:     []PurchasedItem{},
			}
			for _, item := range itemsByOrder[order.ID] {
				product := productByID[item.ProductID]
				unitPrice := effectiveUnitPrice(item, product)
				entry.TotalQuantity += item.Quantity
				entry.TotalPrice += unitPrice * float64(item.Quantity)
				if entry.Image == "" {
					entry.Image = product.Image // First item's image fronts the order
				}
				entry.Items = append(entry.Items, PurchasedItem{
					Quantity:  item.Quantity, // Quantity
					UnitPrice: unitPrice,     // Effective unit price
					Product:   product,       // Product details
				})
			}
			history = append(history, entry)
		}
		respData := gin.H{
			"orders": history, // Per-order summaries
			"cached": false,   // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, reportCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// BuyerTotalPurchasedHandler sums the quantities over every order item of a
// buyer's orders. The result is independent of item ordering.
func BuyerTotalPurchasedHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.Param("buyerId")
		ctx := context.Background() // Use background context for Redis
		cacheKey := "report:buyer:" + buyerID + ":total-purchased"
		var cached struct {
			TotalQuantity int `json:"totalQuantity"` // Cached sum
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"totalQuantity": cached.TotalQuantity, // Sum of purchased quantities
				"cached":        true,                 // Indicate response is from cache
			})
			return
		}
		var orders []domain.Order // The buyer's orders
		if err := db.Where("buyer_id = ?", buyerID).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		orderIDs := make([]uint, len(orders))
		for i, order := range orders {
			orderIDs[i] = order.ID
		}
		total := 0
		if len(orderIDs) > 0 {
			var items []domain.OrderItem
			if err := db.Where("order_id IN ?", orderIDs).Find(&items).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			for _, item := range items {
				total += item.Quantity
			}
		}
		respData := gin.H{
			"totalQuantity": total, // Sum of purchased quantities
			"cached":        false, // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, reportCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// SoldProduct is one sold line item in a seller's revenue report
type SoldProduct struct {
	OrderItemID uint    `json:"orderItemId"` // Order item ID
	OrderID     uint    `json:"orderId"`     // Parent order ID
	ProductID   uint    `json:"productId"`   // Product ID
	Title       string  `json:"title"`       // Product title
	Image       string  `json:"image"`       // Product image
	Quantity    int     `json:"quantity"`    // Quantity sold
	UnitPrice   float64 `json:"unitPrice"`   // Effective price per unit
	Revenue     float64 `json:"revenue"`     // unitPrice x quantity
}

// SoldProductsResponse is the seller revenue report
type SoldProductsResponse struct {
	SoldProducts []SoldProduct `json:"soldProducts"` // Sold line items
	TotalRevenue float64       `json:"totalRevenue"` // Sum of item revenues
}

// SellerSoldHandler computes a seller's sales and revenue over order items
// referencing their products. Only items whose parent order has shipped
// count; pending orders contribute nothing.
func SellerSoldHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.Param("sellerId")
		ctx := context.Background() // Use background context for Redis
		cacheKey := "report:seller:" + sellerID + ":sold-products"
		var cached SoldProductsResponse
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"soldProducts": cached.SoldProducts, // Sold line items
				"totalRevenue": cached.TotalRevenue, // Sum of item revenues
				"cached":       true,                // Indicate response is from cache
			})
			return
		}
		// The seller's products, hidden ones included; a hidden listing still
		// earned its revenue
		var products []domain.Product
		if err := db.Where("seller_id = ?", sellerID).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		productByID := make(map[uint]domain.Product, len(products))
		productIDs := make([]uint, len(products))
		for i, p := range products {
			productByID[p.ID] = p
			productIDs[i] = p.ID
		}
		resp := SoldProductsResponse{SoldProducts: []SoldProduct{}}
		if len(productIDs) > 0 {
			// Items referencing the seller's products
			var items []domain.OrderItem
			if err := db.Where("product_id IN ?", productIDs).Find(&items).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			// Parent orders, to filter by shipped status
			orderIDs := make([]uint, 0, len(items))
			for _, item := range items {
				orderIDs = append(orderIDs, item.OrderID)
			}
			statusByOrder := make(map[uint]string, len(orderIDs))
			if len(orderIDs) > 0 {
				var orders []domain.Order
				if err := db.Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				for _, order := range orders {
					statusByOrder[order.ID] = order.Status
				}
			}
			for _, item := range items {
				// Only shipped orders count toward revenue
				if statusByOrder[item.OrderID] != domain.OrderStatusShipped {
					continue
				}
				product := productByID[item.ProductID]
				unitPrice := effectiveUnitPrice(item, product)
				revenue := unitPrice * float64(item.Quantity)
				resp.SoldProducts = append(resp.SoldProducts, SoldProduct{
					OrderItemID: item.ID,        // Order item ID
					OrderID:     item.OrderID,   // Parent order
					ProductID:   item.ProductID, // Product
					Title:       product.Title,  // Product title
					Image:       product.Image,  // Product image
					Quantity:    item.Quantity,  // Quantity sold
					UnitPrice:   unitPrice,      // Effective unit price
					Revenue:     revenue,        // Line revenue
				})
				resp.TotalRevenue += revenue
			}
		}
		respData := gin.H{
			"soldProducts": resp.SoldProducts, // Sold line items
			"totalRevenue": resp.TotalRevenue, // Sum of item revenues
			"cached":       false,             // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, reportCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}
