package domain

import "time"

// OrderStatus is advanced by the backend or an admin; the client only reads it.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

// OrderLine is a cart line snapshotted at checkout time.
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is immutable from the client's perspective after creation.
type Order struct {
	ID        string      `json:"_id"`
	Lines     []OrderLine `json:"products"`
	Total     float64     `json:"totalAmount"`
	Status    OrderStatus `json:"status"`
	OrderDate time.Time   `json:"orderDate"`
}

// UnavailableProduct is a checkout line that could not be fulfilled, with the
// backend's reason (stock changed between cart-add and checkout, typically).
type UnavailableProduct struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// CheckoutResult is the mixed-outcome checkout payload. Checkout is
// partial-failure tolerant: some lines succeed while others fail, and both
// sets are reported in the same interaction.
type CheckoutResult struct {
	AvailableProducts   []OrderLine          `json:"availableProducts"`
	UnavailableProducts []UnavailableProduct `json:"unavailableProducts"`
	TotalAmount         float64              `json:"totalAmount"`
}
