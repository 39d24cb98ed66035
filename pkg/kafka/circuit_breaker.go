package kafka

import (
	"context"
	"log/slog"

	"github.com/sony/gobreaker"

	"github.com/wms-platform/ops-simulator/pkg/cloudevents"
	"github.com/wms-platform/ops-simulator/pkg/logging"
	"github.com/wms-platform/ops-simulator/pkg/metrics"
	"github.com/wms-platform/ops-simulator/pkg/resilience"
)

const producerBreakerName = "kafka-producer"

// CircuitBreakerProducer wraps a producer with circuit breaker protection
type CircuitBreakerProducer struct {
	producer       EventProducer
	circuitBreaker *resilience.CircuitBreaker
}

// NewCircuitBreakerProducer creates a circuit breaker protected producer.
// Breaker transitions are exported through m when it is non-nil.
func NewCircuitBreakerProducer(producer EventProducer, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	config := resilience.DefaultCircuitBreakerConfig(producerBreakerName)
	config.MaxRequests = 5
	if m != nil {
		m.SetCircuitBreakerState(producerBreakerName, int(gobreaker.StateClosed))
		config.OnStateChange = func(name string, state gobreaker.State) {
			m.SetCircuitBreakerState(name, int(state))
			if state == gobreaker.StateOpen {
				m.RecordCircuitBreakerTrip(name)
			}
		}
	}

	slogLogger := slog.Default()
	if logger != nil && logger.Logger != nil {
		slogLogger = logger.Logger
	}

	return &CircuitBreakerProducer{
		producer:       producer,
		circuitBreaker: resilience.NewCircuitBreaker(config, slogLogger),
	}
}

// PublishEvent publishes a CloudEvent with circuit breaker protection
func (p *CircuitBreakerProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	_, err := p.circuitBreaker.Execute(ctx, func() (interface{}, error) {
		return nil, p.producer.PublishEvent(ctx, topic, event)
	})
	return err
}

// State reports the breaker state
func (p *CircuitBreakerProducer) State() gobreaker.State {
	return p.circuitBreaker.State()
}

// Close closes the underlying producer
func (p *CircuitBreakerProducer) Close() error {
	return p.producer.Close()
}

// NewProductionProducer creates a Kafka producer with instrumentation and circuit breaker
func NewProductionProducer(config *Config, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	base := NewProducer(config)
	instrumented := NewInstrumentedProducer(base, m, logger)
	return NewCircuitBreakerProducer(instrumented, m, logger)
}
