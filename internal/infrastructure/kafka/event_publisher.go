package kafka

import (
	"context"
	"fmt"

	"github.com/wms-platform/ops-simulator/internal/domain"
	"github.com/wms-platform/ops-simulator/pkg/cloudevents"
	"github.com/wms-platform/ops-simulator/pkg/kafka"
	"github.com/wms-platform/ops-simulator/pkg/resilience"
)

// EventPublisher implements domain.EventPublisher using Kafka
type EventPublisher struct {
	producer     kafka.EventProducer
	eventFactory *cloudevents.EventFactory
	topic        string
	retry        *resilience.RetryConfig
}

// NewEventPublisher creates a new Kafka-based event publisher
func NewEventPublisher(
	producer kafka.EventProducer,
	eventFactory *cloudevents.EventFactory,
	topic string,
) *EventPublisher {
	return &EventPublisher{
		producer:     producer,
		eventFactory: eventFactory,
		topic:        topic,
		retry:        resilience.DefaultRetryConfig(),
	}
}

// WithRetry overrides the retry policy used for transient publish failures
func (p *EventPublisher) WithRetry(config *resilience.RetryConfig) *EventPublisher {
	p.retry = config
	return p
}

// Publish publishes a single domain event to Kafka. Every simulation event
// shares one subject so they land on one partition in order.
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	ce := p.eventFactory.CreateEvent(ctx, event.EventType(), domain.SimulationSubject, event)
	ce.Time = event.OccurredAt().UTC()

	err := resilience.Retry(ctx, p.retry, func() error {
		return p.producer.PublishEvent(ctx, p.topic, ce)
	})
	if err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}
	return nil
}

// Close closes the underlying producer
func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
