// Package dashboard assembles a store's overview from inventory and reviews.
package dashboard

import (
	"context"
	"strings"

	"github.com/georgemunganga/coffee-tracker/internal/modules/inventory"
	"github.com/georgemunganga/coffee-tracker/internal/modules/review"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// View is everything the dashboard shows for one store.
type View struct {
	StoreName         string            `json:"store_name"`
	Inventory         []*inventory.Item `json:"inventory"`
	LowStock          []*inventory.Item `json:"low_stock"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	Reviews           []*review.Review  `json:"reviews"`
	ReviewCount       int               `json:"review_count"`
	AverageRating     decimal.Decimal   `json:"average_rating"`
}

// InventoryReader is the part of the inventory ledger the dashboard reads.
type InventoryReader interface {
	ListStore(ctx context.Context, storeID int64) ([]*inventory.Item, error)
	LowStock(ctx context.Context, storeID int64, threshold int) ([]*inventory.Item, error)
	Threshold() int
}

// ReviewFinder looks up reviews by store name.
type ReviewFinder interface {
	FindForStore(ctx context.Context, storeName string) ([]*review.Review, error)
}

type Service interface {
	Build(ctx context.Context, store *user.StoreAccount) (*View, error)
}

type service struct {
	inventory InventoryReader
	reviews   ReviewFinder
	log       logrus.FieldLogger
}

// NewService creates the dashboard service. reviews may be nil when no review store is configured.
func NewService(inv InventoryReader, reviews ReviewFinder, log logrus.FieldLogger) Service {
	return &service{inventory: inv, reviews: reviews, log: log}
}

func (s *service) Build(ctx context.Context, store *user.StoreAccount) (*View, error) {
	items, err := s.inventory.ListStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	threshold := s.inventory.Threshold()
	low, err := s.inventory.LowStock(ctx, store.ID, threshold)
	if err != nil {
		return nil, err
	}

	v := &View{
		StoreName:         strings.TrimSpace(store.StoreName),
		Inventory:         items,
		LowStock:          low,
		LowStockThreshold: threshold,
		Reviews:           []*review.Review{},
		AverageRating:     decimal.Zero,
	}
	if s.reviews == nil {
		return v, nil
	}

	reviews, err := s.reviews.FindForStore(ctx, v.StoreName)
	if err != nil {
		// Reviews are optional on the dashboard.
		s.log.WithField("store_id", store.ID).WithError(err).Warn("load reviews for dashboard")
		return v, nil
	}
	v.Reviews = reviews
	v.ReviewCount = len(reviews)
	v.AverageRating = averageRating(reviews)
	return v, nil
}

func averageRating(reviews []*review.Review) decimal.Decimal {
	if len(reviews) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(reviews))), 2)
}
