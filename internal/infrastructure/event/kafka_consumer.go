package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/kafka-go"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// messageReader is the subset of *kafka.Reader the consumer needs
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumerConfig configures the Kafka event consumer
type KafkaConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaEventConsumer reads storefront events back from Kafka and republishes
// them to an in-process sink, usually the InMemoryEventBus holding the audit
// and metrics handlers. Offsets are committed after the sink has seen the
// message, so delivery to the sink is at least once.
type KafkaEventConsumer struct {
	reader messageReader
	codec  *EventCodec
	sink   shared.EventPublisher
	logger *zap.Logger
}

// NewKafkaEventConsumer creates a consumer group member for the configured topic
func NewKafkaEventConsumer(cfg KafkaConsumerConfig, sink shared.EventPublisher, log *zap.Logger) *KafkaEventConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Sugar().Errorf("kafka reader: "+msg, args...)
		}),
	})
	return newKafkaEventConsumer(reader, sink, log)
}

func newKafkaEventConsumer(reader messageReader, sink shared.EventPublisher, log *zap.Logger) *KafkaEventConsumer {
	return &KafkaEventConsumer{
		reader: reader,
		codec:  NewEventCodec(),
		sink:   sink,
		logger: log,
	}
}

// Run consumes until ctx is cancelled or the reader is closed. Messages that
// cannot be decoded are logged and committed so they do not block the partition.
func (c *KafkaEventConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return shared.NewInfrastructureError("event.consume", err)
		}

		c.deliver(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return shared.NewInfrastructureError("event.commit", err)
		}
	}
}

// Close stops the reader; a blocked Run returns nil
func (c *KafkaEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *KafkaEventConsumer) deliver(ctx context.Context, msg kafka.Message) {
	evt, err := c.decode(msg)
	if err != nil {
		c.logger.Warn("Skipping undecodable event",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	if err := c.sink.Publish(ctx, evt); err != nil {
		c.logger.Error("Failed to republish consumed event",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err),
		)
	}
}

// decode reads the event type from the header, or from the payload's
// "type" field when the header is missing
func (c *KafkaEventConsumer) decode(msg kafka.Message) (shared.DomainEvent, error) {
	var eventType string
	for _, h := range msg.Headers {
		if h.Key == HeaderEventType {
			eventType = string(h.Value)
			break
		}
	}
	if eventType == "" {
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			return nil, fmt.Errorf("read event type: %w", err)
		}
		eventType = envelope.Type
	}
	return c.codec.Decode(eventType, msg.Value)
}
