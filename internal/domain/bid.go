package domain

import "time"

// Bid Model (part of the schema; no handler operates on bids yet)
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`            // Primary key
	ProductID uint      `gorm:"index;not null" json:"productId"` // Foreign key to Product
	BidderID  uint      `gorm:"index;not null" json:"bidderId"`  // Foreign key to the bidding User
	Amount    float64   `gorm:"not null" json:"amount"`          // Bid amount
	BidTime   time.Time `gorm:"autoCreateTime" json:"bidTime"`   // When the bid was placed
}
