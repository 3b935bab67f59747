package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/fjod/go_cart/bookstore-service/pkg/circuitbreaker"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultTopic          = "order-placed"
	EventTypeOrderPlaced  = "order_placed"
	defaultPublishTimeout = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
	Timeout time.Duration
}

// KafkaPublisher writes order events as JSON, keyed by order id, behind a
// circuit breaker.
type KafkaPublisher struct {
	writer  messageWriter
	breaker *circuitbreaker.Breaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewKafkaPublisher(cfg Config, log *zap.Logger) *KafkaPublisher {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, cfg.Timeout, log)
}

func newKafkaPublisher(w messageWriter, timeout time.Duration, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &KafkaPublisher{
		writer:  w,
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("kafka-order-placed"), log),
		timeout: timeout,
		logger:  log,
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)), // order id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
			{Key: "event_id", Value: []byte(event.EventID.String())},
		},
		Time: event.PlacedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.breaker.Do(func() error {
		return p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish order %d: %w", event.OrderID, err)
	}
	p.logger.Debug("order placed event published",
		zap.Int64("order_id", event.OrderID),
		zap.String("event_id", event.EventID.String()))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, *domain.OrderPlacedEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
