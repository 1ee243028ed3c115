package user

import "context"

// Repository defines store account storage.
type Repository interface {
	Create(ctx context.Context, a *StoreAccount) error
	GetByID(ctx context.Context, id int64) (*StoreAccount, error)
	GetByUsername(ctx context.Context, username string) (*StoreAccount, error)
	// GetByStoreName matches store names case-insensitively.
	GetByStoreName(ctx context.Context, name string) (*StoreAccount, error)
}
