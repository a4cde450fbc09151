package notifications

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"tripdesk/internal/search"
	"tripdesk/pkg/logger"
)

// KafkaProducerConfig contains configuration for the session event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "tripdesk-session-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// NewProducerSaramaConfig builds the sarama configuration for cfg
func NewProducerSaramaConfig(cfg *KafkaProducerConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = cfg.RequiredAcks
	saramaConfig.Producer.Compression = cfg.CompressionType
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = cfg.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = cfg.MaxMessageBytes

	if cfg.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// hash on the surface so per-surface ordering survives partitioning
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// SessionEventPublisher forwards search session transitions to Kafka. It is a
// search.Listener; publish failures are logged and never reach the session.
type SessionEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

// NewSessionEventPublisher connects to the configured brokers
func NewSessionEventPublisher(cfg *KafkaProducerConfig, log *logger.Logger) (*SessionEventPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewSessionEventPublisherWithProducer(producer, cfg.Topic, log), nil
}

// NewSessionEventPublisherWithProducer wraps an existing producer
func NewSessionEventPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *SessionEventPublisher {
	if log == nil {
		log = logger.GetDefault()
	}
	return &SessionEventPublisher{producer: producer, topic: topic, logger: log}
}

// OnTransition implements search.Listener
func (p *SessionEventPublisher) OnTransition(ctx context.Context, ev search.Event) {
	if err := p.Publish(ctx, ev); err != nil {
		p.logger.ErrorWithContext(ctx, "Failed to publish session event", err, map[string]interface{}{
			"surface": string(ev.Surface),
			"to":      string(ev.To),
		})
	}
}

// Publish sends one transition synchronously
func (p *SessionEventPublisher) Publish(ctx context.Context, ev search.Event) error {
	event := NewSessionEvent(ev)

	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send session event to Kafka: %w", err)
	}

	p.logger.DebugContext(ctx, "Session event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"surface", event.Surface,
		"to", event.To,
	)
	return nil
}

func createHeaders(event *SessionEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("surface"), Value: []byte(event.Surface)},
		{Key: []byte("status"), Value: []byte(event.To)},
		{Key: []byte("token"), Value: []byte(strconv.FormatUint(event.Token, 10))},
		{Key: []byte("producer"), Value: []byte("tripdesk")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (p *SessionEventPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
