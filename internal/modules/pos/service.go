package pos

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/catalog"
	"github.com/georgemunganga/coffee-tracker/internal/modules/inventory"
	"github.com/georgemunganga/coffee-tracker/internal/platform/events"
	"github.com/georgemunganga/coffee-tracker/internal/platform/lock"
	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service defines purchase recording.
type Service interface {
	// Fulfill sells quantity units of a product, consuming its recipe from the store's inventory.
	Fulfill(ctx context.Context, storeID int64, req FulfillRequest) (*Purchase, error)
	// History returns the store's purchases, newest first.
	History(ctx context.Context, storeID int64) ([]*Purchase, error)
}

// ProductLookup loads a product with its recipe.
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type service struct {
	repo      Repository
	products  ProductLookup
	locker    lock.Locker
	publisher events.Publisher
	log       logrus.FieldLogger
	threshold int
}

func NewService(repo Repository, products ProductLookup, locker lock.Locker, publisher events.Publisher, log logrus.FieldLogger, threshold int) Service {
	return &service{
		repo:      repo,
		products:  products,
		locker:    locker,
		publisher: publisher,
		log:       log,
		threshold: threshold,
	}
}

func (s *service) Fulfill(ctx context.Context, storeID int64, req FulfillRequest) (*Purchase, error) {
	if req.Quantity <= 0 {
		metrics.ObservePurchase(metrics.ResultRejected)
		return nil, apperr.Invalid("quantity must be greater than zero")
	}
	if req.Quantity > MaxQuantity {
		metrics.ObservePurchase(metrics.ResultRejected)
		return nil, apperr.Invalid("quantity must not exceed %d", MaxQuantity)
	}
	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		metrics.ObservePurchase(resultFor(err))
		return nil, err
	}

	deductions, err := scaleRecipe(product.Recipe, req.Quantity)
	if err != nil {
		metrics.ObservePurchase(metrics.ResultRejected)
		return nil, err
	}
	keys := make([]string, 0, len(deductions))
	for _, d := range deductions {
		keys = append(keys, lock.InventoryKey(storeID, d.BeanID))
	}
	release, err := s.locker.Acquire(ctx, keys...)
	if err != nil {
		metrics.ObservePurchase(metrics.ResultError)
		return nil, err
	}
	defer release()

	p := &Purchase{
		ID:          uuid.New(),
		StoreID:     storeID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		Price:       product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}
	if primary, ok := product.PrimaryBean(); ok {
		p.BeanType = primary.BeanType
		p.BeanBrand = primary.BeanBrand
	}

	levels, err := s.repo.RecordFulfillment(ctx, p, deductions)
	if err != nil {
		metrics.ObservePurchase(resultFor(err))
		s.log.WithFields(logrus.Fields{
			"store_id":   storeID,
			"product_id": req.ProductID,
			"quantity":   req.Quantity,
		}).WithError(err).Warn("purchase rejected")
		return nil, err
	}
	metrics.ObservePurchase(metrics.ResultOK)
	s.log.WithFields(logrus.Fields{
		"store_id":    storeID,
		"purchase_id": p.ID,
		"product":     p.ProductName,
		"quantity":    p.Quantity,
	}).Info("purchase recorded")

	err = s.publisher.Publish(ctx, events.TopicPurchaseCompleted, events.StoreKey(storeID), events.PurchaseCompleted{
		PurchaseID:  p.ID.String(),
		StoreID:     storeID,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		Price:       p.Price.StringFixed(2),
		Time:        p.Time,
	})
	if err != nil {
		s.log.WithField("purchase_id", p.ID).WithError(err).Error("publish purchase event")
	}
	inventory.PublishLowStock(ctx, s.publisher, s.log, s.threshold, levels...)
	return p, nil
}

func (s *service) History(ctx context.Context, storeID int64) ([]*Purchase, error) {
	return s.repo.ListByStore(ctx, storeID)
}

// scaleRecipe multiplies each line by quantity, merging repeated beans, ordered by bean id.
// Totals must fit the inventory amount column (int4).
func scaleRecipe(recipe []catalog.RecipeLine, quantity int) ([]Deduction, error) {
	totals := make(map[int64]int, len(recipe))
	for _, l := range recipe {
		if l.AmountRequired <= 0 {
			continue
		}
		if quantity > math.MaxInt32/l.AmountRequired {
			return nil, apperr.Invalid("quantity %d of bean %d exceeds the stock range", quantity, l.BeanID)
		}
		total := totals[l.BeanID] + l.AmountRequired*quantity
		if total > math.MaxInt32 {
			return nil, apperr.Invalid("quantity %d of bean %d exceeds the stock range", quantity, l.BeanID)
		}
		totals[l.BeanID] = total
	}
	out := make([]Deduction, 0, len(totals))
	for bean, amount := range totals {
		out = append(out, Deduction{BeanID: bean, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BeanID < out[j].BeanID })
	return out, nil
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientStock):
		return metrics.ResultInsufficientStock
	case errors.Is(err, apperr.ErrUnknownProduct):
		return metrics.ResultNotFound
	case errors.Is(err, apperr.ErrInvalidArgument):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
