package service

import (
	"context"

	"github.com/ardiwn/shop-api/internal/core/domain"
	"github.com/ardiwn/shop-api/internal/port"
)

type CatalogService struct {
	products port.ProductRepository
}

func NewCatalogService(products port.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ListProducts returns the full catalog. No pagination or filtering.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}
