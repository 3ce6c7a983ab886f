package domain

import "time"

// LineItem is one (product, quantity) pair of an order placement request.
type LineItem struct {
	ProductID int64
	Qty       int
}

type Order struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	Items     []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Qty       int
}

// OrderSummary is one row of the order listing: the order joined with the
// owning user's email.
type OrderSummary struct {
	ID        int64
	CreatedAt time.Time
	Email     string
}
