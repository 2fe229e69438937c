package domain

import "time"

// Store Model (one per seller)
type Store struct {
	ID             uint      `gorm:"primaryKey" json:"id"`         // Primary key
	SellerID       uint      `gorm:"uniqueIndex" json:"sellerId"`  // Foreign key to User, at most one store per seller
	StoreName      string    `gorm:"not null" json:"storeName"`    // Display name of the store
	Description    string    `gorm:"type:text" json:"description"` // Store description
	BannerImageURL string    `json:"bannerImageURL"`               // Banner image URL
	CreatedAt      time.Time `json:"createdAt"`                    // Timestamp of creation
	UpdatedAt      time.Time `json:"updatedAt"`                    // Timestamp of last update
}
