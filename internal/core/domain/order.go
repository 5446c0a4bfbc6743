package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              int64
	BuyerID         int64
	TotalAmount     float64
	Status          OrderStatus
	ShippingAddress string
	Phone           string
	PaymentMethod   string
	Notes           string
	CreatedAt       time.Time
}

// OrderLine records the quantity and the price at the time of purchase.
// The price is copied from the book row inside the order transaction so
// historical orders are insulated from later price changes.
type OrderLine struct {
	OrderID  int64
	BookID   int64
	Quantity int
	Price    float64
}
