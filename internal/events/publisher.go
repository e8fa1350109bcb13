// Package events publishes domain events to downstream consumers. Publishing
// happens after the owning transaction commits and is best-effort: a failed
// publish is logged, never propagated to the caller.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TopicOrderCreated receives one OrderCreatedEvent per placed order.
const TopicOrderCreated = "order.created"

type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	UserID      uuid.UUID       `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	PlacedAt    time.Time       `json:"placed_at"`
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error
	Close() error
}

// KafkaPublisher writes order events to Kafka, keyed by order id so all
// events for one order land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher connects to the given brokers. An empty topic selects
// TopicOrderCreated.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = TopicOrderCreated
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID.String()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// LogPublisher is the no-broker fallback: it logs events instead of sending
// them. Used in development and tests.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishOrderCreated(_ context.Context, ev OrderCreatedEvent) error {
	p.log.Info("order created",
		zap.String("order_id", ev.OrderID.String()),
		zap.String("user_id", ev.UserID.String()),
		zap.String("total_amount", ev.TotalAmount.String()),
		zap.Int("item_count", ev.ItemCount),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
