package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/ops-simulator/internal/application"
	"github.com/wms-platform/ops-simulator/internal/domain"
	"github.com/wms-platform/ops-simulator/pkg/logging"
	"github.com/wms-platform/ops-simulator/pkg/metrics"
	"github.com/wms-platform/ops-simulator/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterEnum("incident_type", domain.IncidentNames()...); err != nil {
		panic(err)
	}
}

type testServer struct {
	simulation *application.SimulationService
	router     *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logConfig := logging.DefaultConfig("test")
	logConfig.Output = io.Discard
	logger := logging.New(logConfig)

	m := metrics.New(metrics.DefaultConfig("test"))
	simulation := application.NewSimulationService(application.SimulationConfig{
		TickInterval:  time.Hour,
		IncidentTicks: 6,
		Seed:          7,
	}, nil, m, logger)
	t.Cleanup(simulation.Stop)

	config := &Config{ServerAddr: ":0"}
	return &testServer{simulation: simulation, router: setupRouter(simulation, m, logger, config)}
}

func (s *testServer) requestJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestReadinessFollowsSimulation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.requestJSON(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, srv.simulation.Start(context.Background()))

	rec = srv.requestJSON(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.requestJSON(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetStateHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.requestJSON(t, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[application.StateDTO](t, rec)
	assert.Len(t, state.KPIs, 5)
	assert.Len(t, state.Workers, domain.WorkerCount)
	assert.Len(t, state.Stages, 5)
	assert.Len(t, state.HourlyProductivity, domain.HourlyBuckets)
	assert.LessOrEqual(t, len(state.Bottlenecks), 3)
	assert.NotEmpty(t, state.Recommendations)
	assert.Equal(t, string(domain.IncidentNone), state.Simulation.ActiveIncident)
	assert.False(t, state.Simulation.Running)
	assert.Equal(t, "1h0m0s", state.Simulation.TickInterval)
}

func TestPanelHandlers(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path string
	}{
		{"/api/v1/kpis"},
		{"/api/v1/delivery-metrics"},
		{"/api/v1/cost-tree"},
		{"/api/v1/workforce"},
		{"/api/v1/stages"},
		{"/api/v1/bottlenecks"},
		{"/api/v1/recommendations"},
		{"/api/v1/incidents"},
		{"/api/v1/simulation"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := srv.requestJSON(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, json.Valid(rec.Body.Bytes()))
		})
	}
}

func TestLinkedCostsHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.requestJSON(t, http.MethodGet, "/api/v1/delivery-metrics/picking/linked-costs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	linked := decode[application.LinkedCostsDTO](t, rec)
	assert.Equal(t, "picking", linked.MetricID)
	assert.Equal(t, []string{"labor", "pick_labor"}, linked.CostNodeIDs)

	rec = srv.requestJSON(t, http.MethodGet, "/api/v1/delivery-metrics/forklifts/linked-costs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decode[middleware.APIErrorResponse](t, rec)
	assert.Equal(t, "RESOURCE_NOT_FOUND", errResp.Code)
	assert.Equal(t, "metric not found", errResp.Message)
	assert.Equal(t, "forklifts", errResp.Details["id"])
}

func TestTriggerIncidentHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.requestJSON(t, http.MethodPost, "/api/v1/incidents", map[string]string{"type": "surge"})
	require.Equal(t, http.StatusOK, rec.Code)

	status := decode[application.SimulationStatusDTO](t, rec)
	assert.Equal(t, "surge", status.ActiveIncident)
	assert.Equal(t, 6, status.IncidentTicksRemaining)
	assert.Equal(t, uint64(1), status.Tick)
	assert.Equal(t, domain.IncidentSurge, srv.simulation.ActiveIncident())

	rec = srv.requestJSON(t, http.MethodPost, "/api/v1/incidents", map[string]string{"type": "none"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.IncidentNone, srv.simulation.ActiveIncident())
}

func TestTriggerIncidentHandlerRejectsInvalidBodies(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"unknown type", map[string]string{"type": "meteor_strike"}, "VALIDATION_ERROR"},
		{"missing type", map[string]string{}, "VALIDATION_ERROR"},
		{"malformed", "not an object", "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.requestJSON(t, http.MethodPost, "/api/v1/incidents", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decode[middleware.APIErrorResponse](t, rec)
			assert.Equal(t, tt.code, errResp.Code)
		})
	}

	assert.Equal(t, domain.IncidentNone, srv.simulation.ActiveIncident())
	assert.Equal(t, uint64(0), srv.simulation.Status().Tick)
}

func TestPauseResumeHandlers(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.simulation.Start(context.Background()))

	rec := srv.requestJSON(t, http.MethodPost, "/api/v1/simulation/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[application.SimulationStatusDTO](t, rec).Paused)
	assert.True(t, srv.simulation.IsPaused())

	rec = srv.requestJSON(t, http.MethodPost, "/api/v1/simulation/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[application.SimulationStatusDTO](t, rec).Paused)
	assert.True(t, srv.simulation.IsRunning())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.requestJSON(t, http.MethodGet, "/api/v1/forklifts", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.requestJSON(t, http.MethodDelete, "/api/v1/incidents", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStreamHandlerSendsSnapshots(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/simulation/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))

	reader := bufio.NewReader(resp.Body)
	readSnapshot := func() domain.WarehouseState {
		t.Helper()
		var event string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				require.Equal(t, "snapshot", event)
				var state domain.WarehouseState
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &state))
				return state
			}
		}
	}

	initial := readSnapshot()
	assert.Len(t, initial.KPIs, 5)

	_, err = srv.simulation.TriggerIncident(context.Background(), application.TriggerIncidentCommand{Type: "error_spike"})
	require.NoError(t, err)

	next := readSnapshot()
	assert.Equal(t, srv.simulation.Snapshot().KPIs, next.KPIs)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("OPS_TEST_STRING", "value")
	t.Setenv("OPS_TEST_DURATION", "250ms")
	t.Setenv("OPS_TEST_BAD_DURATION", "soon")
	t.Setenv("OPS_TEST_INT", "9")
	t.Setenv("OPS_TEST_BOOL", "false")
	t.Setenv("OPS_TEST_LIST", " broker-1:9092, ,broker-2:9092 ")

	assert.Equal(t, "value", getEnv("OPS_TEST_STRING", "default"))
	assert.Equal(t, "default", getEnv("OPS_TEST_MISSING", "default"))
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("OPS_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("OPS_TEST_BAD_DURATION", time.Second))
	assert.Equal(t, 9, getEnvInt("OPS_TEST_INT", 6))
	assert.Equal(t, 6, getEnvInt("OPS_TEST_MISSING", 6))
	assert.False(t, getEnvBool("OPS_TEST_BOOL", true))
	assert.True(t, getEnvBool("OPS_TEST_MISSING", true))
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, splitList(getEnv("OPS_TEST_LIST", "")))
	assert.Nil(t, splitList(""))
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "SIMULATION_TICK_INTERVAL", "SIMULATION_INCIDENT_TICKS", "SIMULATION_SEED", "SIMULATION_EVENT_BUFFER", "SIMULATION_EVENT_DRAIN_TIMEOUT", "SIMULATION_AUTOSTART", "KAFKA_BROKERS", "KAFKA_TOPIC"} {
		t.Setenv(key, "")
	}

	config := loadConfig()

	assert.Equal(t, ":8080", config.ServerAddr)
	assert.Equal(t, 5*time.Second, config.Simulation.TickInterval)
	assert.Equal(t, 6, config.Simulation.IncidentTicks)
	assert.Equal(t, int64(0), config.Simulation.Seed)
	assert.Equal(t, 256, config.Simulation.EventBuffer)
	assert.Equal(t, 5*time.Second, config.Simulation.DrainTimeout)
	assert.True(t, config.Autostart)
	assert.Empty(t, config.Kafka.Brokers)
	assert.Equal(t, "wms.ops.simulation.events", config.KafkaTopic)
}
