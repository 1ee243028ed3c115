package inventory

import (
	"context"
	"time"
)

// Repository defines inventory ledger storage.
type Repository interface {
	// Upsert inserts the row or adds amount to it. A nil expiration keeps the stored one.
	Upsert(ctx context.Context, storeID, beanID int64, amount int, expiration *time.Time) (*Item, error)
	Deduct(ctx context.Context, storeID, beanID int64, amount int) (*Level, error)
	ListByStore(ctx context.Context, storeID int64) ([]*Item, error)
	ListBelow(ctx context.Context, storeID int64, threshold int) ([]*Item, error)
	ListExpiring(ctx context.Context, before time.Time) ([]*Item, error)
}
