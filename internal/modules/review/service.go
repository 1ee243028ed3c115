package review

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	"github.com/sirupsen/logrus"
)

// Service defines review submission and lookup.
type Service interface {
	// Submit stores a review under the matching store's canonical name.
	Submit(ctx context.Context, req SubmitRequest) (*Review, error)
	FindForStore(ctx context.Context, storeName string) ([]*Review, error)
}

// StoreLookup resolves a store by name, ignoring case.
type StoreLookup interface {
	GetByStoreName(ctx context.Context, storeName string) (*user.StoreAccount, error)
}

type service struct {
	repo   Repository
	stores StoreLookup
	log    logrus.FieldLogger
}

func NewService(repo Repository, stores StoreLookup, log logrus.FieldLogger) Service {
	return &service{repo: repo, stores: stores, log: log}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Review, error) {
	name := strings.TrimSpace(req.ShopName)
	if name == "" {
		metrics.ObserveReview(metrics.ResultRejected)
		return nil, apperr.Invalid("shop_name is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		metrics.ObserveReview(metrics.ResultRejected)
		return nil, apperr.Invalid("rating must be between 1 and 5")
	}

	store, err := s.stores.GetByStoreName(ctx, name)
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownStore) {
			metrics.ObserveReview(metrics.ResultNotFound)
		} else {
			metrics.ObserveReview(metrics.ResultError)
		}
		return nil, err
	}

	rv := &Review{ShopName: store.StoreName, Rating: req.Rating, Text: strings.TrimSpace(req.Text)}
	if err := s.repo.Insert(ctx, rv); err != nil {
		metrics.ObserveReview(metrics.ResultError)
		return nil, err
	}
	metrics.ObserveReview(metrics.ResultOK)
	s.log.WithFields(logrus.Fields{"store_id": store.ID, "rating": rv.Rating}).Info("review submitted")
	return rv, nil
}

func (s *service) FindForStore(ctx context.Context, storeName string) ([]*Review, error) {
	name := strings.TrimSpace(storeName)
	if name == "" {
		return nil, apperr.Invalid("shop_name is required")
	}
	return s.repo.FindByShopName(ctx, name)
}
