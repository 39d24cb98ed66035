package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"github.com/wms-platform/ops-simulator/pkg/logging"
)

// EventFactory creates CloudEvents for a single source
type EventFactory struct {
	source     string
	propagator propagation.TraceContext
	now        func() time.Time
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Source returns the configured event source
func (f *EventFactory) Source() string {
	return f.source
}

// CreateEvent wraps data in a new event. The correlation ID stored in ctx by
// the HTTP middleware and the active W3C trace context are copied onto the
// event's extensions.
func (f *EventFactory) CreateEvent(ctx context.Context, eventType, subject string, data interface{}) *WMSCloudEvent {
	event := &WMSCloudEvent{
		SpecVersion:     SpecVersion,
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now(),
		DataContentType: "application/json",
		Data:            data,
	}

	if id, ok := ctx.Value(logging.CorrelationIDKey).(string); ok {
		event.CorrelationID = id
	}

	carrier := propagation.MapCarrier{}
	f.propagator.Inject(ctx, carrier)
	event.TraceParent = carrier.Get("traceparent")
	event.TraceState = carrier.Get("tracestate")

	return event
}
