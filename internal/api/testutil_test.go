package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"marketplace_backend/internal/domain"
	"marketplace_backend/internal/middleware"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// Each test gets its own named in-memory database; shared cache keeps every
// pooled connection on the same database.
var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Address{},
		&domain.Store{},
		&domain.Category{},
		&domain.Product{},
		&domain.Inventory{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Bid{},
		&domain.Payment{},
		&domain.ShippingInfo{},
	))
	return db
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// setupRouter wires the full route table the way cmd/server does
func setupRouter(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", RegisterHandler(db, testJWTSecret))
	authGroup.POST("/login", LoginHandler(db, testJWTSecret))
	sessionGroup := authGroup.Group("")
	sessionGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	sessionGroup.GET("/me", GetCurrentUserHandler(db))
	sessionGroup.POST("/logout", LogoutHandler())
	sessionGroup.POST("/upgrade-to-seller", UpgradeToSellerHandler(db, testJWTSecret))
	sessionGroup.POST("/create-store", CreateStoreHandler(db))
	sessionGroup.GET("/store", middleware.SellerOnlyMiddleware(db), GetStoreHandler(db))

	productGroup := apiGroup.Group("/products")
	productGroup.POST("", CreateProductHandler(db, rdb))
	productGroup.GET("", ListProductsHandler(db))
	productGroup.GET("/:id", GetProductHandler(db))
	productGroup.PUT("/:id", UpdateProductHandler(db, rdb))
	productGroup.PATCH("/:id", PatchProductHandler(db, rdb))
	productGroup.PATCH("/:id/hide", HideProductHandler(db, rdb))
	productGroup.DELETE("/:id", DeleteProductHandler(db, rdb))

	productGroup.GET("/seller/:sellerId/on-sale", SellerOnSaleHandler(db, rdb))
	productGroup.GET("/seller/:sellerId/total-on-sale", SellerTotalOnSaleHandler(db, rdb))
	productGroup.GET("/seller/:sellerId/sold-products", SellerSoldHandler(db, rdb))
	productGroup.GET("/buyer/:buyerId/purchased-products", BuyerPurchasedHandler(db, rdb))
	productGroup.GET("/buyer/:buyerId/total-purchased-products", BuyerTotalPurchasedHandler(db, rdb))

	apiGroup.PUT("/inventory/:productId", UpdateInventoryHandler(db, rdb))
	apiGroup.GET("/inventory/:productId", GetInventoryHandler(db))
	apiGroup.GET("/inventories", ListInventoriesHandler(db))

	apiGroup.GET("/categories", ListCategoriesHandler(db))

	orderItemGroup := apiGroup.Group("/order-items")
	orderItemGroup.POST("/create", CreateOrderItemHandler(db, rdb))
	orderItemGroup.GET("/all", ListOrderItemsHandler(db))
	orderItemGroup.GET("/seller/:sellerId", SellerOrderItemsHandler(db))
	orderItemGroup.PUT("/update/:id", UpdateOrderItemHandler(db, rdb))
	orderItemGroup.DELETE("/delete/:id", DeleteOrderItemHandler(db, rdb))

	return r
}

// doRequest runs one request against the router and returns the recorder
func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into dest
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// seedSeller creates a seller user directly in the database
func seedSeller(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     domain.RoleSeller,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedProduct creates a product with an inventory row holding quantity
func seedProduct(t *testing.T, db *gorm.DB, sellerID uint, title string, price float64, quantity int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		SellerID: sellerID,
		Title:    title,
		Price:    price,
		Image:    title + ".png",
		Visible:  true,
	}
	require.NoError(t, db.Create(product).Error)
	require.NoError(t, db.Create(&domain.Inventory{
		ProductID:   product.ID,
		Quantity:    quantity,
		LastUpdated: time.Now(),
	}).Error)
	return product
}

// seedOrder creates an order with the given items. Item product ids must
// exist; unit prices of zero are stored as-is to exercise the price fallback.
func seedOrder(t *testing.T, db *gorm.DB, buyerID uint, status string, items ...domain.OrderItem) *domain.Order {
	t.Helper()
	order := &domain.Order{
		BuyerID:   buyerID,
		OrderDate: time.Now(),
		Status:    status,
	}
	require.NoError(t, db.Create(order).Error)
	for i := range items {
		items[i].OrderID = order.ID
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return order
}

// registerUser registers through the API and returns the issued token and user id
func registerUser(t *testing.T, r *gin.Engine, username string) (string, uint) {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}
