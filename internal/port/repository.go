package port

import (
	"context"
	"time"

	"github.com/ardiwn/shop-api/internal/core/domain"
)

type UserRepository interface {
	// GetUserByEmail retrieves a user by exact email match, nil if absent
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProductRepository interface {
	// GetProduct retrieves a product by ID, nil if absent
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListProducts returns all products ordered by ID
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type OrderRepository interface {
	// CreateOrder persists an order, its items, and the matching stock
	// decrements in a single all-or-nothing transaction. The decrement is
	// conditional: it returns domain.ErrInsufficientStock and leaves no
	// partial state if any item would drive a product's quantity negative.
	CreateOrder(ctx context.Context, userID int64, createdAt time.Time, items []domain.LineItem) (int64, error)

	// ListOrders returns all orders joined with the owning user's email,
	// ordered by order ID
	ListOrders(ctx context.Context) ([]domain.OrderSummary, error)
}
