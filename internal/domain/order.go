package domain

import "time"

// Order status values. Only shipped orders count toward seller revenue.
const (
	OrderStatusPending = "pending"
	OrderStatusShipped = "shipped"
)

// Order Model (created by the checkout flow; this service mostly reads them)
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`            // Primary key
	BuyerID   uint      `gorm:"index;not null" json:"buyerId"`   // Foreign key to the buyer User
	OrderDate time.Time `gorm:"autoCreateTime" json:"orderDate"` // When the order was placed
	AddressID *uint     `json:"addressId"`                       // Foreign key to the shipping Address, optional
	Status    string    `gorm:"default:pending" json:"status"`   // Order status: pending, shipped, ...

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // Line items
}

// OrderItem Model. UnitPrice is captured at purchase time and decoupled from
// the live Product.Price; a zero UnitPrice means it was never recorded.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`            // Primary key
	OrderID   uint    `gorm:"index;not null" json:"orderId"`   // Foreign key to Order
	ProductID uint    `gorm:"index;not null" json:"productId"` // Foreign key to Product
	Quantity  int     `gorm:"not null" json:"quantity"`        // Quantity purchased
	UnitPrice float64 `json:"unitPrice"`                       // Price per unit at purchase time

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // Product relation
}
