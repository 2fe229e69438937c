package domain

import "time"

// Inventory Model (quantity on hand for a product; an absent row reads as zero)
type Inventory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`               // Primary key
	ProductID   uint      `gorm:"uniqueIndex" json:"productId"`       // Foreign key to Product, one row per product
	Quantity    int       `gorm:"not null;default:0" json:"quantity"` // Quantity on hand
	LastUpdated time.Time `json:"lastUpdated"`                        // Stamped on every upsert

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // Product relation
}
