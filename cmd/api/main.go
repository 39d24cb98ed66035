package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/ops-simulator/internal/application"
	"github.com/wms-platform/ops-simulator/internal/domain"
	kafkaPublisher "github.com/wms-platform/ops-simulator/internal/infrastructure/kafka"
	"github.com/wms-platform/ops-simulator/pkg/cloudevents"
	"github.com/wms-platform/ops-simulator/pkg/kafka"
	"github.com/wms-platform/ops-simulator/pkg/logging"
	"github.com/wms-platform/ops-simulator/pkg/metrics"
	"github.com/wms-platform/ops-simulator/pkg/middleware"
	"github.com/wms-platform/ops-simulator/pkg/tracing"
)

const serviceName = "ops-simulator"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting ops-simulator API")

	config := loadConfig()

	// Request contexts derive from ctx, so open SSE streams end on shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = config.OTLPEndpoint
	tracingConfig.Environment = logConfig.Environment
	tracingConfig.Enabled = config.TracingEnabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	// Event publishing is optional; without brokers the simulation only logs its events
	var publisher domain.EventPublisher
	if len(config.Kafka.Brokers) > 0 {
		producer := kafka.NewProductionProducer(config.Kafka, m, logger)
		defer producer.Close()

		eventFactory := cloudevents.NewEventFactory(cloudevents.SourceOpsSimulator)
		publisher = kafkaPublisher.NewEventPublisher(producer, eventFactory, config.KafkaTopic)
		logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers, "topic", config.KafkaTopic)
	} else {
		logger.Info("KAFKA_BROKERS not set, event publishing disabled")
	}

	simulation := application.NewSimulationService(config.Simulation, publisher, m, logger)
	if config.Autostart {
		if err := simulation.Start(ctx); err != nil {
			logger.WithError(err).Error("Failed to start simulation")
			os.Exit(1)
		}
	}
	defer simulation.Stop()

	if err := middleware.RegisterEnum("incident_type", domain.IncidentNames()...); err != nil {
		logger.WithError(err).Error("Failed to register incident validator")
		os.Exit(1)
	}

	router := setupRouter(simulation, m, logger, config)

	srv := &http.Server{
		Addr:              config.ServerAddr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// setupRouter builds the gin engine with the standard middleware chain and all routes
func setupRouter(simulation *application.SimulationService, m *metrics.Metrics, logger *logging.Logger, config *Config) *gin.Engine {
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger)
	if len(config.AllowOrigins) > 0 {
		middlewareConfig.AllowOrigins = config.AllowOrigins
	}
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())
	router.HandleMethodNotAllowed = true

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		if !simulation.IsRunning() {
			return fmt.Errorf("simulation is not running")
		}
		return nil
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/state", getStateHandler(simulation))
		apiV1.GET("/kpis", getKPIsHandler(simulation))
		apiV1.GET("/cost-tree", getCostTreeHandler(simulation))
		apiV1.GET("/workforce", getWorkforceHandler(simulation))
		apiV1.GET("/stages", getStagesHandler(simulation))
		apiV1.GET("/bottlenecks", getBottlenecksHandler(simulation))
		apiV1.GET("/recommendations", getRecommendationsHandler(simulation))
	}

	metricsGroup := apiV1.Group("/delivery-metrics")
	{
		metricsGroup.GET("", getDeliveryMetricsHandler(simulation))
		metricsGroup.GET("/:metricId/linked-costs", getLinkedCostsHandler(simulation, logger))
	}

	incidents := apiV1.Group("/incidents")
	{
		incidents.GET("", getIncidentsHandler(simulation))
		incidents.POST("", triggerIncidentHandler(simulation, logger))
	}

	sim := apiV1.Group("/simulation")
	{
		sim.GET("", getSimulationHandler(simulation))
		sim.POST("/pause", setPausedHandler(simulation, logger, true))
		sim.POST("/resume", setPausedHandler(simulation, logger, false))
		sim.GET("/stream", streamHandler(simulation, logger))
	}

	return router
}

// Config holds application configuration
type Config struct {
	ServerAddr     string
	AllowOrigins   []string
	Simulation     application.SimulationConfig
	Autostart      bool
	Kafka          *kafka.Config
	KafkaTopic     string
	OTLPEndpoint   string
	TracingEnabled bool
}

func loadConfig() *Config {
	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = splitList(getEnv("KAFKA_BROKERS", ""))

	defaults := application.DefaultSimulationConfig()

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "")),
		Simulation: application.SimulationConfig{
			TickInterval:  getEnvDuration("SIMULATION_TICK_INTERVAL", defaults.TickInterval),
			IncidentTicks: getEnvInt("SIMULATION_INCIDENT_TICKS", defaults.IncidentTicks),
			Seed:          int64(getEnvInt("SIMULATION_SEED", 0)),
			EventBuffer:   getEnvInt("SIMULATION_EVENT_BUFFER", defaults.EventBuffer),
			DrainTimeout:  getEnvDuration("SIMULATION_EVENT_DRAIN_TIMEOUT", defaults.DrainTimeout),
		},
		Autostart:      getEnvBool("SIMULATION_AUTOSTART", true),
		Kafka:          kafkaConfig,
		KafkaTopic:     getEnv("KAFKA_TOPIC", kafka.Topics.OpsSimulationEvents),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
