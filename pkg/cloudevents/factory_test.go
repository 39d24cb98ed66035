package cloudevents

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/wms-platform/ops-simulator/pkg/logging"
)

func TestCreateEvent(t *testing.T) {
	factory := NewEventFactory(SourceOpsSimulator)
	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-42")

	event := factory.CreateEvent(ctx, IncidentTriggered, "incident/surge", map[string]string{"incidentType": "surge"})

	assert.Equal(t, SpecVersion, event.SpecVersion)
	assert.Equal(t, IncidentTriggered, event.Type)
	assert.Equal(t, SourceOpsSimulator, event.Source)
	assert.Equal(t, "incident/surge", event.Subject)
	assert.Equal(t, "corr-42", event.CorrelationID)
	assert.Equal(t, "application/json", event.DataContentType)
	assert.Empty(t, event.TraceParent, "no span in context")
	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
}

func TestCreateEventCarriesTraceContext(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "trigger")
	defer span.End()

	event := NewEventFactory(SourceOpsSimulator).CreateEvent(ctx, TickCompleted, "simulation", nil)

	require.NotEmpty(t, event.TraceParent)
	assert.Contains(t, event.TraceParent, span.SpanContext().TraceID().String())
}

func TestEventJSONShape(t *testing.T) {
	event := NewEventFactory(SourceOpsSimulator).CreateEvent(context.Background(), SimulationPaused, "simulation", map[string]int{"tick": 3})

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1.0", decoded["specversion"])
	assert.Equal(t, SimulationPaused, decoded["type"])
	assert.NotContains(t, decoded, "wmscorrelationid")
	assert.EqualValues(t, 3, decoded["data"].(map[string]any)["tick"])
}
