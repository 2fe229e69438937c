package domain

import "time"

// Payment Model (part of the schema; no handler operates on payments yet)
type Payment struct {
	ID      uint       `gorm:"primaryKey" json:"id"`          // Primary key
	OrderID uint       `gorm:"index;not null" json:"orderId"` // Foreign key to Order
	UserID  uint       `gorm:"index;not null" json:"userId"`  // Foreign key to the paying User
	Amount  float64    `gorm:"not null" json:"amount"`        // Amount paid
	Method  string     `gorm:"not null" json:"method"`        // Payment method: credit_card, paypal, bank_transfer, other
	Status  string     `gorm:"default:pending" json:"status"` // Payment status: pending, completed, failed, refunded
	PaidAt  *time.Time `json:"paidAt"`                        // When the payment settled, if it did
}
