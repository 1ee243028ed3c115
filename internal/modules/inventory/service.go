package inventory

import (
	"context"
	"errors"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/platform/events"
	"github.com/georgemunganga/coffee-tracker/internal/platform/lock"
	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	"github.com/sirupsen/logrus"
)

// Service defines the inventory ledger.
type Service interface {
	Restock(ctx context.Context, storeID int64, req RestockRequest) (*Item, error)
	Deduct(ctx context.Context, storeID int64, req DeductRequest) (*Level, error)
	// LowStock returns the store's rows with amount strictly below threshold.
	LowStock(ctx context.Context, storeID int64, threshold int) ([]*Item, error)
	ListStore(ctx context.Context, storeID int64) ([]*Item, error)
	// Threshold is the deployment's default low-stock threshold.
	Threshold() int
}

type service struct {
	repo      Repository
	locker    lock.Locker
	publisher events.Publisher
	log       logrus.FieldLogger
	threshold int
}

// NewService creates a new inventory service.
func NewService(repo Repository, locker lock.Locker, publisher events.Publisher, log logrus.FieldLogger, threshold int) Service {
	return &service{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		log:       log,
		threshold: threshold,
	}
}

func (s *service) Threshold() int { return s.threshold }

func (s *service) Restock(ctx context.Context, storeID int64, req RestockRequest) (*Item, error) {
	if req.BeanID <= 0 {
		return nil, apperr.Invalid("bean_id is required")
	}
	if req.Amount <= 0 {
		return nil, apperr.Invalid("amount must be greater than zero")
	}

	release, err := s.locker.Acquire(ctx, lock.InventoryKey(storeID, req.BeanID))
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := s.repo.Upsert(ctx, storeID, req.BeanID, req.Amount, req.ExpirationDate)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, apperr.ErrUnknownBean) || errors.Is(err, apperr.ErrUnknownStore) {
			result = metrics.ResultNotFound
		}
		metrics.ObserveRestock(result)
		return nil, err
	}
	metrics.ObserveRestock(metrics.ResultOK)
	s.log.WithFields(logrus.Fields{
		"store_id": storeID,
		"bean_id":  req.BeanID,
		"added":    req.Amount,
		"amount":   item.Amount,
	}).Info("inventory restocked")
	return item, nil
}

func (s *service) Deduct(ctx context.Context, storeID int64, req DeductRequest) (*Level, error) {
	if req.BeanID <= 0 {
		return nil, apperr.Invalid("bean_id is required")
	}
	if req.Amount <= 0 {
		return nil, apperr.Invalid("amount must be greater than zero")
	}

	release, err := s.locker.Acquire(ctx, lock.InventoryKey(storeID, req.BeanID))
	if err != nil {
		return nil, err
	}
	defer release()

	level, err := s.repo.Deduct(ctx, storeID, req.BeanID, req.Amount)
	if err != nil {
		return nil, err
	}
	PublishLowStock(ctx, s.publisher, s.log, s.threshold, *level)
	return level, nil
}

func (s *service) LowStock(ctx context.Context, storeID int64, threshold int) ([]*Item, error) {
	if threshold < 0 {
		return nil, apperr.Invalid("threshold must not be negative")
	}
	return s.repo.ListBelow(ctx, storeID, threshold)
}

func (s *service) ListStore(ctx context.Context, storeID int64) ([]*Item, error) {
	return s.repo.ListByStore(ctx, storeID)
}
