package middleware

import (
	"marketplace_backend/internal/domain" // Importing domain models
	"net/http"                            // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SellerOnlyMiddleware checks the user's role from the database on each
// request. The role in the token may be stale after an upgrade, so the
// database is the source of truth here.
func SellerOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Only sellers can access this resource"})
			return
		}
		// Check if user role is seller
		if user.Role != domain.RoleSeller {
			// If not a seller, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Only sellers can access this resource"})
			return
		}
		// If seller, proceed to the next handler
		c.Next()
	}
}
