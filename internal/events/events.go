package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/internal/logging"
)

// Topics the storefront publishes to.
const (
	TopicOrders   = "storefront.orders"
	TopicPayments = "storefront.payments"
)

// Event types.
const (
	TypeOrderPlaced     = "order.placed"
	TypePaymentRecorded = "payment.recorded"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

// New builds an event of type typ keyed by key.
func New(typ, key string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher delivers domain events after the owning transaction committed.
type Publisher interface {
	Publish(ctx context.Context, topic string, e Event) error
	Close() error
}

// Nop discards every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }

// Kafka publishes events with a synchronous sarama producer.
type Kafka struct {
	producer sarama.SyncProducer
	logger   *logrus.Entry
}

// NewKafka connects a producer to brokers.
func NewKafka(brokers []string, logger *logrus.Entry) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newKafka(producer, logger), nil
}

func newKafka(producer sarama.SyncProducer, logger *logrus.Entry) *Kafka {
	return &Kafka{producer: producer, logger: logging.OrDiscard(logger)}
}

func (k *Kafka) Publish(_ context.Context, topic string, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(e.Key),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: e.OccurredAt,
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		k.logger.WithError(err).WithFields(logrus.Fields{"topic": topic, "type": e.Type}).Error("publish event")
		return fmt.Errorf("send event: %w", err)
	}
	k.logger.WithFields(logrus.Fields{
		"topic":     topic,
		"type":      e.Type,
		"partition": partition,
		"offset":    offset,
	}).Debug("event published")
	return nil
}

func (k *Kafka) Close() error {
	if err := k.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
