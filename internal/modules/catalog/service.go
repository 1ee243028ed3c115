package catalog

import (
	"context"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
)

// Service defines catalog lookups.
type Service interface {
	ListBeans(ctx context.Context) ([]*Bean, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListBeans(ctx context.Context) ([]*Bean, error) {
	return s.repo.ListBeans(ctx)
}

func (s *service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, apperr.ErrUnknownProduct
	}
	return s.repo.GetProduct(ctx, id)
}
