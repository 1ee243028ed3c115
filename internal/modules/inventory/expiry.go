package inventory

import (
	"context"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/platform/events"
	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpiryWatcher reports stocked rows whose expiration date falls inside window.
type ExpiryWatcher struct {
	repo      Repository
	publisher events.Publisher
	log       logrus.FieldLogger
	window    time.Duration
	now       func() time.Time
}

func NewExpiryWatcher(repo Repository, publisher events.Publisher, log logrus.FieldLogger, window time.Duration) *ExpiryWatcher {
	return &ExpiryWatcher{
		repo:      repo,
		publisher: publisher,
		log:       log.WithField("job", "expiry_watcher"),
		window:    window,
		now:       time.Now,
	}
}

// Run performs one check and returns the rows it reported.
func (w *ExpiryWatcher) Run(ctx context.Context) ([]*Item, error) {
	now := w.now()
	items, err := w.repo.ListExpiring(ctx, now.Add(w.window))
	if err != nil {
		return nil, err
	}
	metrics.SetExpiringRows(len(items))

	for _, item := range items {
		fields := logrus.Fields{
			"store_id":        item.StoreID,
			"bean_id":         item.BeanID,
			"amount":          item.Amount,
			"expiration_date": item.ExpirationDate.Format("2006-01-02"),
			"expired":         item.Expired(now),
		}
		w.log.WithFields(fields).Warn("inventory expiring")

		err := w.publisher.Publish(ctx, events.TopicExpiring, events.StoreKey(item.StoreID), events.StockLevel{
			StoreID:        item.StoreID,
			BeanID:         item.BeanID,
			Amount:         item.Amount,
			ExpirationDate: item.ExpirationDate,
		})
		if err != nil {
			w.log.WithFields(fields).WithError(err).Error("publish expiring event")
		}
	}
	return items, nil
}

// Schedule registers Run on c with the given cron spec.
func (w *ExpiryWatcher) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		items, err := w.Run(ctx)
		if err != nil {
			w.log.WithError(err).Error("expiry check failed")
			return
		}
		w.log.WithField("rows", len(items)).Info("expiry check finished")
	})
}
