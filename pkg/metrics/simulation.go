package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// simulationMetrics exports the simulated warehouse telemetry so the synthetic
// dashboard can also be scraped like a real site.
type simulationMetrics struct {
	ticks              *prometheus.CounterVec
	tickDuration       prometheus.Histogram
	kpiValue           *prometheus.GaugeVec
	stageQueue         *prometheus.GaugeVec
	stageUtilization   *prometheus.GaugeVec
	stageErrorRate     *prometheus.GaugeVec
	zonePicks          *prometheus.GaugeVec
	activeIncident     *prometheus.GaugeVec
	incidentsTriggered *prometheus.CounterVec
	paused             prometheus.Gauge
}

func newSimulationMetrics(config *Config) *simulationMetrics {
	ns, sub := config.Namespace, config.Subsystem

	return &simulationMetrics{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_ticks_total",
			Help: "Total number of simulation steps by trigger",
		}, []string{"trigger"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name:    "sim_tick_duration_seconds",
			Help:    "Time spent computing one simulation step",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		kpiValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_kpi_value",
			Help: "Current simulated KPI value",
		}, []string{"kpi"}),
		stageQueue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_stage_queue_size",
			Help: "Simulated queue size per process stage",
		}, []string{"stage"}),
		stageUtilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_stage_utilization_percent",
			Help: "Simulated utilization per process stage",
		}, []string{"stage"}),
		stageErrorRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_stage_error_rate_percent",
			Help: "Simulated error rate per process stage",
		}, []string{"stage"}),
		zonePicks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_zone_picks_per_hour",
			Help: "Average picks per hour of the workers in a zone",
		}, []string{"zone"}),
		activeIncident: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_active_incident",
			Help: "1 for the incident type currently active, 0 otherwise",
		}, []string{"type"}),
		incidentsTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_incidents_triggered_total",
			Help: "Total number of incidents triggered",
		}, []string{"type"}),
		paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sim_paused",
			Help: "1 while the simulation timer is paused",
		}),
	}
}

func (s *simulationMetrics) register(registry *prometheus.Registry) {
	registry.MustRegister(
		s.ticks,
		s.tickDuration,
		s.kpiValue,
		s.stageQueue,
		s.stageUtilization,
		s.stageErrorRate,
		s.zonePicks,
		s.activeIncident,
		s.incidentsTriggered,
		s.paused,
	)
}

// RecordTick records one simulation step
func (m *Metrics) RecordTick(trigger string, duration time.Duration) {
	m.sim.ticks.WithLabelValues(trigger).Inc()
	m.sim.tickDuration.Observe(duration.Seconds())
}

// RecordKPI sets the current value of a KPI
func (m *Metrics) RecordKPI(label string, value float64) {
	m.sim.kpiValue.WithLabelValues(label).Set(value)
}

// RecordStage sets the current queue, utilization and error rate of a process stage
func (m *Metrics) RecordStage(stage string, queueSize int, utilization, errorRate float64) {
	m.sim.stageQueue.WithLabelValues(stage).Set(float64(queueSize))
	m.sim.stageUtilization.WithLabelValues(stage).Set(utilization)
	m.sim.stageErrorRate.WithLabelValues(stage).Set(errorRate)
}

// RecordZoneLoad sets the average picks per hour of a zone
func (m *Metrics) RecordZoneLoad(zone string, avgPicks float64) {
	m.sim.zonePicks.WithLabelValues(zone).Set(avgPicks)
}

// SetActiveIncident flags active as the only active incident among known.
// An empty active clears all of them.
func (m *Metrics) SetActiveIncident(active string, known []string) {
	for _, t := range known {
		v := 0.0
		if t == active {
			v = 1
		}
		m.sim.activeIncident.WithLabelValues(t).Set(v)
	}
}

// RecordIncidentTriggered counts a triggered incident
func (m *Metrics) RecordIncidentTriggered(incident string) {
	m.sim.incidentsTriggered.WithLabelValues(incident).Inc()
}

// SetPaused records the pause flag
func (m *Metrics) SetPaused(paused bool) {
	v := 0.0
	if paused {
		v = 1
	}
	m.sim.paused.Set(v)
}
