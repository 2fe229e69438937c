package domain

import "time"

// Address Model (shipping address attached to a user)
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`           // Primary key
	UserID    uint      `gorm:"index" json:"userId"`            // Foreign key to User
	FullName  string    `json:"fullName"`                       // Recipient full name
	Phone     string    `json:"phone"`                          // Contact phone number
	Street    string    `json:"street"`                         // Street line
	City      string    `json:"city"`                           // City
	State     string    `json:"state"`                          // State or province
	Country   string    `json:"country"`                        // Country
	IsDefault bool      `gorm:"default:false" json:"isDefault"` // Default address flag
	CreatedAt time.Time `json:"createdAt"`                      // Timestamp of creation
}
