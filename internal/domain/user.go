package domain

import "time"

// Role values for User.Role. A buyer can be upgraded to seller but never back.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`            // Primary key
	Username  string    `gorm:"unique;not null" json:"username"` // Unique username
	Email     string    `gorm:"unique;not null" json:"email"`    // Unique email
	Password  string    `gorm:"not null" json:"-"`               // Hashed password, never serialized
	Role      string    `gorm:"default:buyer" json:"role"`       // Role: buyer or seller
	AvatarURL string    `json:"avatarURL"`                       // Profile picture URL
	CreatedAt time.Time `json:"createdAt"`                       // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                       // Timestamp of last update

	Store *Store `gorm:"foreignKey:SellerID" json:"store,omitempty"` // One-to-one relationship with Store
}
