package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/pkg/kafka"
	"github.com/gatherly/ticketing/pkg/logger"
)

// Domain event types published to the ticketing topic
const (
	EventTypeBookingCreated = "booking.created"
	EventTypeEventCancelled = "event.cancelled"
)

// DomainEvent is the envelope for messages on the ticketing topic
type DomainEvent struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaEventPublisher publishes domain events to Kafka
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *logger.Logger
}

// NewKafkaEventPublisher creates a Kafka-backed publisher
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, log *logger.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic, logger: log}
}

// PublishBookingCreated emits a booking.created event keyed by event ID
// so all admissions for one event land on the same partition.
func (p *KafkaEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	event := DomainEvent{
		Type:       EventTypeBookingCreated,
		OccurredAt: time.Now().UTC(),
		Payload:    booking,
	}
	if err := p.producer.ProduceJSON(ctx, p.topic, booking.EventID, event, nil); err != nil {
		p.logger.Error("failed to publish booking.created",
			zap.String("booking_id", booking.ID),
			zap.String("event_id", booking.EventID),
			zap.Error(err))
		return err
	}
	return nil
}

// PublishEventCancelled emits an event.cancelled event
func (p *KafkaEventPublisher) PublishEventCancelled(ctx context.Context, ev *domain.Event) error {
	event := DomainEvent{
		Type:       EventTypeEventCancelled,
		OccurredAt: time.Now().UTC(),
		Payload:    ev,
	}
	if err := p.producer.ProduceJSON(ctx, p.topic, ev.ID, event, nil); err != nil {
		p.logger.Error("failed to publish event.cancelled",
			zap.String("event_id", ev.ID),
			zap.Error(err))
		return err
	}
	return nil
}

// NoOpEventPublisher discards all events. Used when Kafka is not
// configured or unreachable at startup.
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a publisher that drops everything
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

// PublishBookingCreated does nothing
func (p *NoOpEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return nil
}

// PublishEventCancelled does nothing
func (p *NoOpEventPublisher) PublishEventCancelled(ctx context.Context, event *domain.Event) error {
	return nil
}
