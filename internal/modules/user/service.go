package user

import "context"

// Service defines store account business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*StoreAccount, error)
	// EnsureAccount registers req unless the username already exists.
	EnsureAccount(ctx context.Context, req RegisterRequest) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*StoreAccount, error)
	GetByUsername(ctx context.Context, username string) (*StoreAccount, error)
	GetByStoreName(ctx context.Context, name string) (*StoreAccount, error)
}
