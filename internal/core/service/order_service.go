package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ardiwn/shop-api/internal/core/domain"
	"github.com/ardiwn/shop-api/internal/port"
)

type OrderService struct {
	products port.ProductRepository
	orders   port.OrderRepository
}

func NewOrderService(products port.ProductRepository, orders port.OrderRepository) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
	}
}

// PlaceOrder validates the requested line items against current stock and,
// if every item passes, records the order and decrements stock in a single
// all-or-nothing transaction. The repository re-checks stock inside that
// transaction with a conditional decrement, so two requests racing past
// validation cannot overdraw a product together: the loser fails whole with
// domain.ErrInsufficientStock and leaves no partial state.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, items []domain.LineItem) (int64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: order has no items", domain.ErrInvalidInput)
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return 0, fmt.Errorf("%w: missing product id", domain.ErrInvalidInput)
		}
		if item.Qty <= 0 {
			return 0, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidInput)
		}
	}

	for _, item := range items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("fetch product %d: %w", item.ProductID, err)
		}
		if product == nil {
			return 0, fmt.Errorf("%w: product %d", domain.ErrProductNotFound, item.ProductID)
		}
		if item.Qty > product.Qty {
			return 0, fmt.Errorf("%w: product %d: available %d, requested %d",
				domain.ErrInsufficientStock, item.ProductID, product.Qty, item.Qty)
		}
	}

	return s.orders.CreateOrder(ctx, userID, time.Now(), items)
}

// ListOrders returns every order with the owning user's email, order id
// ascending. Visibility is deliberately unscoped: any authenticated user
// sees all orders.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.orders.ListOrders(ctx)
}
