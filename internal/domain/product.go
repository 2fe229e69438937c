package domain

import "time"

// Product Model (a listing as exposed to buyers)
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`           // Primary key
	SellerID    uint      `gorm:"index;not null" json:"sellerId"` // Foreign key to the seller User
	Title       string    `gorm:"not null" json:"title"`          // Listing title
	Description string    `gorm:"type:text" json:"description"`   // Listing description
	Price       float64   `gorm:"not null" json:"price"`          // Current listing price
	Image       string    `gorm:"not null" json:"image"`          // Main image URL
	CategoryID  *uint     `gorm:"index" json:"categoryId"`        // Foreign key to Category, optional
	IsAuction   bool      `gorm:"default:false" json:"isAuction"` // Auction flag
	Visible     bool      `gorm:"default:true" json:"visible"`    // Hidden listings are excluded from listings but kept for reports
	CreatedAt   time.Time `json:"createdAt"`                      // Timestamp of creation
	UpdatedAt   time.Time `json:"updatedAt"`                      // Timestamp of last update

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // Category relation
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`     // Seller relation
}
