package review

import "context"

// Repository stores reviews by shop name.
type Repository interface {
	Insert(ctx context.Context, r *Review) error
	// FindByShopName matches shop_name exactly, ignoring case.
	FindByShopName(ctx context.Context, shopName string) ([]*Review, error)
}
