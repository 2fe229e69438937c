package domain

import "time"

// ShippingInfo Model (part of the schema; no handler operates on shipments yet)
type ShippingInfo struct {
	ID               uint       `gorm:"primaryKey" json:"id"`          // Primary key
	OrderID          uint       `gorm:"index;not null" json:"orderId"` // Foreign key to Order
	Carrier          string     `gorm:"not null" json:"carrier"`       // Carrier name
	TrackingNumber   string     `json:"trackingNumber"`                // Carrier tracking number
	Status           string     `gorm:"default:pending" json:"status"` // Shipment status: pending, shipped, in_transit, delivered
	EstimatedArrival *time.Time `json:"estimatedArrival"`              // Estimated delivery date
}
