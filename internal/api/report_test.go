package api

import (
	"fmt"
	"marketplace_backend/internal/domain"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalOnSaleCountsOnlyStockedProducts(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	seedProduct(t, db, seller.ID, "Stocked", 10, 4)
	zero := seedProduct(t, db, seller.ID, "Empty", 20, 0)

	url := fmt.Sprintf("/api/products/seller/%d/total-on-sale", seller.ID)
	w := doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TotalDistinctProducts int `json:"totalDistinctProducts"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.TotalDistinctProducts)

	// Stocking the empty product invalidates the cached count
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/inventory/%d", zero.ID), gin.H{"quantity": 3}, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.TotalDistinctProducts)
}

func TestNewProductDoesNotCountUntilStocked(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")

	// Create through the API: inventory starts at zero
	w := doRequest(t, r, http.MethodPost, "/api/products", gin.H{
		"sellerId": seller.ID,
		"title":    "Widget",
		"image":    "x.png",
		"price":    10,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var product domain.Product
	decodeBody(t, w, &product)

	url := fmt.Sprintf("/api/products/seller/%d/total-on-sale", seller.ID)
	w = doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TotalDistinctProducts int `json:"totalDistinctProducts"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 0, resp.TotalDistinctProducts)

	// Now stock it and the count moves
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/inventory/%d", product.ID), gin.H{"quantity": 1}, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.TotalDistinctProducts)
}

func TestSellerOnSaleListing(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	stocked := seedProduct(t, db, seller.ID, "Stocked", 10, 4)
	hidden := seedProduct(t, db, seller.ID, "Hidden", 20, 2)
	require.NoError(t, db.Model(hidden).Update("visible", false).Error)

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/products/seller/%d/on-sale", seller.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []ProductView `json:"products"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, stocked.ID, resp.Products[0].ID)
	assert.Equal(t, 4, resp.Products[0].Quantity)
}

func TestPurchaseHistory(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	product := seedProduct(t, db, seller.ID, "Widget", 10, 5)
	buyerID := uint(77)

	seedOrder(t, db, buyerID, domain.OrderStatusPending,
		domain.OrderItem{ProductID: product.ID, Quantity: 2, UnitPrice: 5})

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/products/buyer/%d/purchased-products", buyerID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Orders []PurchasedOrder `json:"orders"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Orders, 1)
	entry := resp.Orders[0]
	assert.Equal(t, 2, entry.TotalQuantity)
	assert.Equal(t, 10.0, entry.TotalPrice) // 2 x captured unit price 5
	assert.Equal(t, "Widget.png", entry.Image)
	require.Len(t, entry.Items, 1)
	assert.Equal(t, 5.0, entry.Items[0].UnitPrice)
	assert.Equal(t, product.ID, entry.Items[0].Product.ID)
}

func TestPurchaseHistoryPriceFallback(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	product := seedProduct(t, db, seller.ID, "Widget", 8, 5)
	buyerID := uint(77)

	// No captured unit price: the live product price fills in
	seedOrder(t, db, buyerID, domain.OrderStatusPending,
		domain.OrderItem{ProductID: product.ID, Quantity: 3, UnitPrice: 0})

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/products/buyer/%d/purchased-products", buyerID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Orders []PurchasedOrder `json:"orders"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, 24.0, resp.Orders[0].TotalPrice) // 3 x live price 8
}

func TestTotalPurchased(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	a := seedProduct(t, db, seller.ID, "A", 10, 5)
	b := seedProduct(t, db, seller.ID, "B", 20, 5)
	buyerID := uint(77)

	// Two orders, three items; the status does not matter here
	seedOrder(t, db, buyerID, domain.OrderStatusPending,
		domain.OrderItem{ProductID: a.ID, Quantity: 2, UnitPrice: 10},
		domain.OrderItem{ProductID: b.ID, Quantity: 1, UnitPrice: 20})
	seedOrder(t, db, buyerID, domain.OrderStatusShipped,
		domain.OrderItem{ProductID: a.ID, Quantity: 4, UnitPrice: 10})
	// Another buyer's order must not leak in
	seedOrder(t, db, 88, domain.OrderStatusShipped,
		domain.OrderItem{ProductID: a.ID, Quantity: 9, UnitPrice: 10})

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/products/buyer/%d/total-purchased-products", buyerID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TotalQuantity int `json:"totalQuantity"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 7, resp.TotalQuantity)
}

func TestSoldProductsCountShippedOnly(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	other := seedSeller(t, db, "seller2")
	mine := seedProduct(t, db, seller.ID, "Mine", 10, 5)
	theirs := seedProduct(t, db, other.ID, "Theirs", 99, 5)

	// Shipped order: counts. Pending order: does not.
	seedOrder(t, db, 77, domain.OrderStatusShipped,
		domain.OrderItem{ProductID: mine.ID, Quantity: 2, UnitPrice: 5},
		domain.OrderItem{ProductID: theirs.ID, Quantity: 1, UnitPrice: 99})
	seedOrder(t, db, 77, domain.OrderStatusPending,
		domain.OrderItem{ProductID: mine.ID, Quantity: 10, UnitPrice: 5})
	// Shipped item with no captured price falls back to the live price
	seedOrder(t, db, 88, domain.OrderStatusShipped,
		domain.OrderItem{ProductID: mine.ID, Quantity: 3, UnitPrice: 0})

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/products/seller/%d/sold-products", seller.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp SoldProductsResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.SoldProducts, 2)
	assert.Equal(t, 40.0, resp.TotalRevenue) // 2x5 + 3x10
	for _, sold := range resp.SoldProducts {
		assert.Equal(t, mine.ID, sold.ProductID)
	}
}

func TestSoldProductsEmptySeller(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))

	w := doRequest(t, r, http.MethodGet, "/api/products/seller/12345/sold-products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp SoldProductsResponse
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.SoldProducts)
	assert.Zero(t, resp.TotalRevenue)
}

func TestReportCacheHitEchoesCachedFlag(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, setupTestRedis(t))
	seller := seedSeller(t, db, "seller1")
	seedProduct(t, db, seller.ID, "Widget", 10, 4)

	url := fmt.Sprintf("/api/products/seller/%d/total-on-sale", seller.ID)
	var resp struct {
		TotalDistinctProducts int  `json:"totalDistinctProducts"`
		Cached                bool `json:"cached"`
	}

	// First request misses the cache
	w := doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.TotalDistinctProducts)
	assert.False(t, resp.Cached)

	// Second request is served from the cache
	w = doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.TotalDistinctProducts)
	assert.True(t, resp.Cached)

	// The listing view carries the same marker
	var listing struct {
		Products []ProductView `json:"products"`
		Cached   bool          `json:"cached"`
	}
	listURL := fmt.Sprintf("/api/products/seller/%d/on-sale", seller.ID)
	w = doRequest(t, r, http.MethodGet, listURL, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listing)
	assert.False(t, listing.Cached)
	w = doRequest(t, r, http.MethodGet, listURL, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listing)
	assert.True(t, listing.Cached)
	require.Len(t, listing.Products, 1)
}

func TestReportCacheInvalidationOnOrderItemWrite(t *testing.T) {
	db := setupTestDB(t)
	rdb := setupTestRedis(t)
	r := setupRouter(db, rdb)
	seller := seedSeller(t, db, "seller1")
	product := seedProduct(t, db, seller.ID, "Widget", 10, 5)
	order := seedOrder(t, db, 77, domain.OrderStatusShipped)

	url := fmt.Sprintf("/api/products/seller/%d/sold-products", seller.ID)
	w := doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var before SoldProductsResponse
	decodeBody(t, w, &before)
	assert.Zero(t, before.TotalRevenue)

	// Creating an order item drops the cached report on both sides
	w = doRequest(t, r, http.MethodPost, "/api/order-items/create", gin.H{
		"orderId":   order.ID,
		"productId": product.ID,
		"quantity":  2,
		"unitPrice": 5,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var after SoldProductsResponse
	decodeBody(t, w, &after)
	assert.Equal(t, 10.0, after.TotalRevenue)
}
