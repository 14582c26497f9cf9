package goals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/salesops/backend/internal/domain/goals"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DefaultWriteTimeout bounds one delivery attempt to the broker
const DefaultWriteTimeout = 10 * time.Second

// MessageWriter is the part of kafka.Writer the notifier uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes goal notifications to a Kafka topic, keyed by user
// so that one performer's updates stay ordered within a partition.
type KafkaNotifier struct {
	writer       MessageWriter
	topic        string
	writeTimeout time.Duration
	logger       *zap.Logger
}

// KafkaNotifierConfig holds the broker settings
type KafkaNotifierConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// NewKafkaNotifier creates a notifier writing to the configured brokers
func NewKafkaNotifier(cfg KafkaNotifierConfig, logger *zap.Logger) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka notifier requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka notifier requires a topic")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return NewKafkaNotifierWithWriter(writer, cfg.Topic, cfg.WriteTimeout, logger), nil
}

// NewKafkaNotifierWithWriter creates a notifier on an existing writer
func NewKafkaNotifierWithWriter(writer MessageWriter, topic string, writeTimeout time.Duration, logger *zap.Logger) *KafkaNotifier {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &KafkaNotifier{
		writer:       writer,
		topic:        topic,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// Notify writes all notifications in one batch
func (n *KafkaNotifier) Notify(ctx context.Context, notifications ...goals.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(notifications))
	for _, notification := range notifications {
		value, err := json.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to encode goal notification: %w", err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(notification.UserID.String()),
			Value: value,
			Time:  notification.OccurredAt,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, n.writeTimeout)
	defer cancel()

	if err := n.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish goal notifications to %s: %w", n.topic, err)
	}

	n.logger.Debug("goal notifications published",
		zap.String("topic", n.topic),
		zap.Int("count", len(messages)),
	)
	return nil
}

// Close flushes and closes the writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

var _ goals.Notifier = (*KafkaNotifier)(nil)
