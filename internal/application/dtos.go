package application

import (
	"time"

	"github.com/wms-platform/ops-simulator/internal/domain"
)

// SimulationStatusDTO represents the driver state
type SimulationStatusDTO struct {
	Running                bool      `json:"running"`
	Paused                 bool      `json:"paused"`
	ActiveIncident         string    `json:"activeIncident"`
	IncidentTicksRemaining int       `json:"incidentTicksRemaining"`
	Tick                   uint64    `json:"tick"`
	TickInterval           string    `json:"tickInterval"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// StateDTO represents a full snapshot together with the driver state
type StateDTO struct {
	Simulation SimulationStatusDTO `json:"simulation"`
	domain.WarehouseState
}

// MetricNodeDTO represents a delivery metric with its variance
type MetricNodeDTO struct {
	ID              string          `json:"id"`
	Label           string          `json:"label"`
	Current         float64         `json:"current"`
	Target          float64         `json:"target"`
	Unit            string          `json:"unit"`
	Status          string          `json:"status"`
	Trend           string          `json:"trend"`
	VariancePercent float64         `json:"variancePercent"`
	Children        []MetricNodeDTO `json:"children,omitempty"`
}

// LinkedCostsDTO represents the cost nodes linked to a metric
type LinkedCostsDTO struct {
	MetricID    string   `json:"metricId"`
	CostNodeIDs []string `json:"costNodeIds"`
}

// WorkforceDTO represents the workforce panel
type WorkforceDTO struct {
	Workers            []domain.WorkerData         `json:"workers"`
	Zones              []domain.ZoneSummary        `json:"zones"`
	Shifts             []domain.ShiftSummary       `json:"shifts"`
	Summary            domain.WorkforceSummary     `json:"summary"`
	Reassignment       *domain.Reassignment        `json:"reassignment,omitempty"`
	HourlyProductivity []domain.HourlyProductivity `json:"hourlyProductivity"`
}

// StageDTO represents a process stage with its alert flags
type StageDTO struct {
	domain.ProcessStage
	Flags domain.StageFlags `json:"flags"`
}

// IncidentsDTO represents the incident catalog and the active incident
type IncidentsDTO struct {
	Catalog                []domain.IncidentInfo `json:"catalog"`
	Active                 string                `json:"active"`
	IncidentTicksRemaining int                   `json:"incidentTicksRemaining"`
}
