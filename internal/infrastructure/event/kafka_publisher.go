package event

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Header names attached to every published message
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
)

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisherConfig configures the Kafka event publisher
type KafkaPublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaEventPublisher writes domain events to a Kafka topic. Messages are
// keyed by owner id so all events of one owner land on the same partition
// in publish order.
type KafkaEventPublisher struct {
	writer  messageWriter
	codec   *EventCodec
	topic   string
	timeout time.Duration
	logger  *zap.Logger
	closed  atomic.Bool
}

// NewKafkaEventPublisher creates a synchronous publisher for the configured topic
func NewKafkaEventPublisher(cfg KafkaPublisherConfig, log *zap.Logger) *KafkaEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		Async:        false,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Sugar().Errorf("kafka writer: "+msg, args...)
		}),
	}
	return newKafkaEventPublisher(writer, cfg, log)
}

func newKafkaEventPublisher(writer messageWriter, cfg KafkaPublisherConfig, log *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer:  writer,
		codec:   NewEventCodec(),
		topic:   cfg.Topic,
		timeout: cfg.WriteTimeout,
		logger:  log,
	}
}

// Publish writes all events in a single batch. The caller decides whether a
// failure matters; cart operations log it and carry on.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if p.closed.Load() {
		return shared.NewInfrastructureError("event.publish", errPublisherClosed)
	}
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		msg, err := p.toMessage(evt)
		if err != nil {
			return shared.NewInfrastructureError("event.serialize", err)
		}
		msgs = append(msgs, msg)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return shared.NewInfrastructureError("event.publish", err)
	}

	logger.L(ctx, p.logger).Debug("Events published",
		zap.String("topic", p.topic),
		zap.Int("count", len(msgs)),
	)
	return nil
}

// Close flushes and closes the underlying writer. Safe to call twice.
func (p *KafkaEventPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaEventPublisher) toMessage(evt shared.DomainEvent) (kafka.Message, error) {
	payload, err := p.codec.Encode(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(evt.OwnerID().String()),
		Value: payload,
		Time:  evt.OccurredAt(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(evt.EventType())},
			{Key: HeaderEventID, Value: []byte(evt.EventID().String())},
			{Key: HeaderAggregateType, Value: []byte(evt.AggregateType())},
		},
	}, nil
}

var _ shared.EventPublisher = (*KafkaEventPublisher)(nil)

var errPublisherClosed = errors.New("kafka publisher is closed")
