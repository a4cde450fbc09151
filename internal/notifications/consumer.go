package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"tripdesk/pkg/logger"
)

// SessionEventHandler receives decoded session events
type SessionEventHandler func(ctx context.Context, event *SessionEvent) error

type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topics           []string
	SessionTimeoutMs int
	HeartbeatMs      int
	RetryBackoffMs   int
	OffsetOldest     bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          []string{"localhost:9092"},
		GroupID:          "tripdesk-watchers",
		Topics:           []string{"tripdesk-session-events"},
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		RetryBackoffMs:   100,
	}
}

// SessionEventConsumer follows the session event topic
type SessionEventConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler *sessionEventGroupHandler
	logger  *logger.Logger
}

func NewSessionEventConsumer(cfg *ConsumerConfig, handle SessionEventHandler, log *logger.Logger) (*SessionEventConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(cfg.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(cfg.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return newSessionEventConsumer(group, cfg.Topics, handle, log), nil
}

func newSessionEventConsumer(group sarama.ConsumerGroup, topics []string, handle SessionEventHandler, log *logger.Logger) *SessionEventConsumer {
	if log == nil {
		log = logger.GetDefault()
	}
	return &SessionEventConsumer{
		group:   group,
		topics:  topics,
		handler: &sessionEventGroupHandler{handle: handle, logger: log},
		logger:  log,
	}
}

// Run consumes until ctx is canceled. Rebalances restart the session loop.
func (c *SessionEventConsumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.WithError(err).Warn("Consumer group error")
		}
	}()

	for {
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.logger.WithError(err).Warn("Error consuming session events")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *SessionEventConsumer) Close() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type sessionEventGroupHandler struct {
	handle SessionEventHandler
	logger *logger.Logger
}

func (h *sessionEventGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *sessionEventGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *sessionEventGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if err := h.process(session.Context(), message); err != nil {
				h.logger.WithError(err).Warn("Skipping session event",
					"topic", message.Topic,
					"partition", message.Partition,
					"offset", message.Offset,
				)
			}
			// malformed events are skipped, not redelivered
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *sessionEventGroupHandler) process(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := ParseSessionEvent(message.Value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal session event: %w", err)
	}
	return h.handle(ctx, event)
}
