package kafka

import "time"

// Config holds Kafka producer configuration
type Config struct {
	Brokers      []string
	ClientID     string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // -1 all replicas, 0 none, 1 leader
	WriteTimeout time.Duration
}

// DefaultConfig returns a producer configuration tuned for low-volume,
// latency sensitive event publishing
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "ops-simulator",
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
		WriteTimeout: 10 * time.Second,
	}
}

// Topics published by the operations simulator
var Topics = struct {
	OpsSimulationEvents string
}{
	OpsSimulationEvents: "wms.ops.simulation.events",
}
