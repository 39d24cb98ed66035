package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/ops-simulator/pkg/cloudevents"
	"github.com/wms-platform/ops-simulator/pkg/metrics"
	"github.com/wms-platform/ops-simulator/pkg/resilience"
)

type stubWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

type stubProducer struct {
	PublishEventFn func(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error
	calls          int
}

func (s *stubProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	s.calls++
	if s.PublishEventFn != nil {
		return s.PublishEventFn(ctx, topic, event)
	}
	return nil
}

func (s *stubProducer) Close() error { return nil }

func newTestProducer(w *stubWriter) *Producer {
	p := NewProducer(DefaultConfig())
	p.newWriter = func(string) messageWriter { return w }
	return p
}

func sampleEvent() *cloudevents.WMSCloudEvent {
	return &cloudevents.WMSCloudEvent{
		SpecVersion:     cloudevents.SpecVersion,
		Type:            cloudevents.IncidentTriggered,
		Source:          cloudevents.SourceOpsSimulator,
		Subject:         "surge",
		ID:              "evt-1",
		Time:            time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		DataContentType: "application/json",
		Data:            map[string]string{"incidentType": "surge"},
		CorrelationID:   "corr-1",
		TraceParent:     "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	}
}

func headerMap(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestProducerPublishEvent(t *testing.T) {
	w := &stubWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.PublishEvent(context.Background(), Topics.OpsSimulationEvents, sampleEvent()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "surge", string(msg.Key))

	headers := headerMap(msg)
	assert.Equal(t, "1.0", headers["ce-specversion"])
	assert.Equal(t, cloudevents.IncidentTriggered, headers["ce-type"])
	assert.Equal(t, "corr-1", headers["ce-wmscorrelationid"])
	assert.Contains(t, headers, "ce-traceparent")
	assert.NotContains(t, headers, "ce-tracestate")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "evt-1", decoded["id"])
}

func TestProducerWrapsWriteError(t *testing.T) {
	w := &stubWriter{err: errors.New("leader not available")}
	p := newTestProducer(w)

	err := p.PublishEvent(context.Background(), "topic-a", sampleEvent())

	assert.ErrorContains(t, err, "failed to publish event to topic topic-a")
	assert.ErrorIs(t, err, w.err)
}

func TestProducerCloseClosesWriters(t *testing.T) {
	w := &stubWriter{}
	p := newTestProducer(w)
	require.NoError(t, p.PublishEvent(context.Background(), "topic-a", sampleEvent()))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestInstrumentedProducerRecordsMetrics(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("ops-simulator"))
	stub := &stubProducer{}
	p := NewInstrumentedProducer(stub, m, nil)

	require.NoError(t, p.PublishEvent(context.Background(), "topic-a", sampleEvent()))

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.KafkaEventsPublished.WithLabelValues("ops-simulator", "topic-a", cloudevents.IncidentTriggered, "success")))
}

func TestCircuitBreakerProducerOpensAfterFailures(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("ops-simulator"))
	stub := &stubProducer{PublishEventFn: func(context.Context, string, *cloudevents.WMSCloudEvent) error {
		return errors.New("broker down")
	}}
	p := NewCircuitBreakerProducer(stub, m, nil)

	for i := 0; i < 5; i++ {
		assert.Error(t, p.PublishEvent(context.Background(), "topic-a", sampleEvent()))
	}

	assert.Equal(t, gobreaker.StateOpen, p.State())
	assert.ErrorIs(t, p.PublishEvent(context.Background(), "topic-a", sampleEvent()), resilience.ErrCircuitOpen)
	assert.Equal(t, 5, stub.calls)
	assert.Equal(t, float64(gobreaker.StateOpen), testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("ops-simulator", producerBreakerName)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("ops-simulator", producerBreakerName)))
}
