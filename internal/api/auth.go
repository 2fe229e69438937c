package api

import (
	"marketplace_backend/internal/domain" // Importing domain models
	"marketplace_backend/internal/utils"  // Utility functions
	"net/http"                            // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest represents a registration request. The address fields are
// optional; a default Address is created only when all of them are present.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"` // Username must be provided
	Email     string `json:"email" binding:"required"`    // Email must be provided
	Password  string `json:"password" binding:"required"` // Password must be provided
	Role      string `json:"role"`                        // Optional role, defaults to buyer
	AvatarURL string `json:"avatarURL"`                   // Optional avatar URL
	FullName  string `json:"fullName"`                    // Optional address: recipient name
	Phone     string `json:"phone"`                       // Optional address: phone
	Street    string `json:"street"`                      // Optional address: street
	City      string `json:"city"`                        // Optional address: city
	State     string `json:"state"`                       // Optional address: state
	Country   string `json:"country"`                     // Optional address: country
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// UserResponse is the user shape returned by every auth endpoint
type UserResponse struct {
	ID        uint   `json:"id"`        // User ID
	Username  string `json:"username"`  // Username
	Email     string `json:"email"`     // Email
	Role      string `json:"role"`      // Role: buyer or seller
	AvatarURL string `json:"avatarURL"` // Avatar URL
}

// newUserResponse maps a domain user to the response shape
func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,        // User ID
		Username:  u.Username,  // Username
		Email:     u.Email,     // Email
		Role:      u.Role,      // Role
		AvatarURL: u.AvatarURL, // Avatar URL
	}
}

// RegisterHandler creates a new user, optionally with a default address, and
// returns a signed token. No token is issued when the user already exists.
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}
		// Check if a user already exists with this email or username
		var existing domain.User
		if err := db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email or username"})
			return
		}
		// Hash the password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error registering user", "error": err.Error()})
			return
		}
		// Role defaults to buyer when not supplied
		role := req.Role
		if role == "" {
			role = domain.RoleBuyer
		}
		user := domain.User{
			Username:  req.Username, // Username
			Email:     req.Email,    // Email
			Password:  string(hash), // Hashed password
			Role:      role,         // Role
			AvatarURL: req.AvatarURL,
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// A race on the unique columns surfaces here
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email or username"})
			return
		}
		// Create a default address only when every address field was provided
		if req.FullName != "" && req.Phone != "" && req.Street != "" && req.City != "" && req.State != "" && req.Country != "" {
			address := domain.Address{
				UserID:    user.ID,      // Owner
				FullName:  req.FullName, // Recipient name
				Phone:     req.Phone,    // Phone
				Street:    req.Street,   // Street
				City:      req.City,     // City
				State:     req.State,    // State
				Country:   req.Country,  // Country
				IsDefault: true,         // First address is the default
			}
			if err := db.Create(&address).Error; err != nil {
				// Address is best effort; the registration itself already succeeded
				logrus.WithFields(logrus.Fields{
					"user_id": user.ID,
					"error":   err.Error(),
				}).Error("Failed to create address")
			}
		}
		// Generate JWT token carrying the role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error registering user", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"role":    user.Role,
		}).Info("User registered")
		// Return the token and the public user shape
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
			"token":   token,
			"user":    newUserResponse(&user),
		})
	}
}

// LoginHandler authenticates a user by email and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Missing user and bad password answer identically
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error logging in", "error": err.Error()})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"token":   token,
			"user":    newUserResponse(&user),
		})
	}
}

// GetCurrentUserHandler returns the user behind the presented token
func GetCurrentUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// The token may outlive the account
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": newUserResponse(&user)})
	}
}

// LogoutHandler ends a session. Tokens are stateless, so this only
// acknowledges; the client discards its token.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
	}
}

// UpgradeToSellerHandler escalates a buyer to seller and issues a fresh token
// carrying the new role. The transition is one way; sellers stay sellers.
func UpgradeToSellerHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		// Check if user is already a seller
		if user.Role == domain.RoleSeller {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User is already a seller"})
			return
		}
		// Update user role to seller
		if err := db.Model(&user).Update("role", domain.RoleSeller).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error upgrading user to seller", "error": err.Error()})
			return
		}
		user.Role = domain.RoleSeller
		// Generate a new token with the updated role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error upgrading user to seller", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
		}).Info("User upgraded to seller")
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User upgraded to seller successfully",
			"token":   token,
			"user":    newUserResponse(&user),
		})
	}
}

// CreateStoreRequest represents a store creation request
type CreateStoreRequest struct {
	StoreName      string `json:"storeName"`      // Store name, required
	Description    string `json:"description"`    // Optional description
	BannerImageURL string `json:"bannerImageURL"` // Optional banner URL
}

// CreateStoreHandler provisions the one store a seller may own
func CreateStoreHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var req CreateStoreRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.StoreName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Store name is required"})
			return
		}
		// Only sellers can create a store
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil || user.Role != domain.RoleSeller {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only sellers can create a store"})
			return
		}
		// At most one store per seller
		var existing domain.Store
		if err := db.Where("seller_id = ?", user.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You already have a store"})
			return
		}
		store := domain.Store{
			SellerID:       user.ID,            // Owner
			StoreName:      req.StoreName,      // Store name
			Description:    req.Description,    // Description
			BannerImageURL: req.BannerImageURL, // Banner URL
		}
		if err := db.Create(&store).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating store", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"store_id": store.ID,
		}).Info("Store created")
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Store created successfully", "store": store})
	}
}

// GetStoreHandler returns the authenticated seller's store. The seller role
// is enforced by SellerOnlyMiddleware on the route.
func GetStoreHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var store domain.Store // Fetch the store
		if err := db.Where("seller_id = ?", userID).First(&store).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Store not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "store": store})
	}
}
