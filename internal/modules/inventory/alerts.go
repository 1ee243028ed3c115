package inventory

import (
	"context"

	"github.com/georgemunganga/coffee-tracker/internal/platform/events"
	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	"github.com/sirupsen/logrus"
)

// PublishLowStock emits a low-stock event for every level below threshold.
// Publishing failures are logged, never returned: the stock change has already committed.
func PublishLowStock(ctx context.Context, pub events.Publisher, log logrus.FieldLogger, threshold int, levels ...Level) {
	for _, l := range levels {
		if l.Amount >= threshold {
			continue
		}
		metrics.ObserveLowStock()
		fields := logrus.Fields{"store_id": l.StoreID, "bean_id": l.BeanID, "amount": l.Amount, "threshold": threshold}
		log.WithFields(fields).Warn("inventory below threshold")

		err := pub.Publish(ctx, events.TopicLowStock, events.StoreKey(l.StoreID), events.StockLevel{
			StoreID:   l.StoreID,
			BeanID:    l.BeanID,
			Amount:    l.Amount,
			Threshold: threshold,
		})
		if err != nil {
			log.WithFields(fields).WithError(err).Error("publish low stock event")
		}
	}
}
