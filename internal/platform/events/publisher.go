// Package events publishes inventory and purchase events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/platform/metrics"
	"github.com/segmentio/kafka-go"
)

const (
	TopicPurchaseCompleted = "coffee.purchase.completed"
	TopicLowStock          = "coffee.inventory.low_stock"
	TopicExpiring          = "coffee.inventory.expiring"
)

// Publisher sends a JSON-encoded payload to topic under key.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns a no-op publisher when brokers is empty.
func NewKafkaPublisher(brokers []string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	v, err := json.Marshal(payload)
	if err != nil {
		metrics.ObserveEvent(topic, metrics.ResultError)
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: v,
		Time:  time.Now(),
	})
	if err != nil {
		metrics.ObserveEvent(topic, metrics.ResultError)
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.ObserveEvent(topic, metrics.ResultOK)
	return nil
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, interface{}) error { return nil }
func (Noop) Close() error                                              { return nil }
