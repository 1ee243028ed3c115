package catalog

import "context"

// Repository defines read access to catalog reference data.
type Repository interface {
	ListBeans(ctx context.Context) ([]*Bean, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
}
