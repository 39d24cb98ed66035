package domain

import (
	"context"
	"time"
)

// SimulationSubject keys every simulation event so they stay ordered on one partition
const SimulationSubject = "ops-simulation"

// Tick triggers
const (
	TriggerTimer    = "timer"
	TriggerIncident = "incident"
)

// Reasons an incident is cleared
const (
	ClearReasonExpired  = "expired"
	ClearReasonReplaced = "replaced"
	ClearReasonManual   = "manual"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// IncidentTriggeredEvent is published when an operator triggers an incident
type IncidentTriggeredEvent struct {
	IncidentType     IncidentType `json:"incidentType"`
	PreviousIncident IncidentType `json:"previousIncident"`
	Tick             uint64       `json:"tick"`
	TriggeredAt      time.Time    `json:"triggeredAt"`
}

func (e *IncidentTriggeredEvent) EventType() string     { return "wms.ops.incident-triggered" }
func (e *IncidentTriggeredEvent) OccurredAt() time.Time { return e.TriggeredAt }

// IncidentClearedEvent is published when an incident expires, is replaced or is cleared
type IncidentClearedEvent struct {
	IncidentType IncidentType `json:"incidentType"`
	Reason       string       `json:"reason"`
	Tick         uint64       `json:"tick"`
	ClearedAt    time.Time    `json:"clearedAt"`
}

func (e *IncidentClearedEvent) EventType() string     { return "wms.ops.incident-cleared" }
func (e *IncidentClearedEvent) OccurredAt() time.Time { return e.ClearedAt }

// SimulationPausedEvent is published when the timer is suspended
type SimulationPausedEvent struct {
	Tick     uint64    `json:"tick"`
	PausedAt time.Time `json:"pausedAt"`
}

func (e *SimulationPausedEvent) EventType() string     { return "wms.ops.simulation-paused" }
func (e *SimulationPausedEvent) OccurredAt() time.Time { return e.PausedAt }

// SimulationResumedEvent is published when the timer is resumed
type SimulationResumedEvent struct {
	Tick      uint64    `json:"tick"`
	ResumedAt time.Time `json:"resumedAt"`
}

func (e *SimulationResumedEvent) EventType() string     { return "wms.ops.simulation-resumed" }
func (e *SimulationResumedEvent) OccurredAt() time.Time { return e.ResumedAt }

// TickCompletedEvent is published after every state transition
type TickCompletedEvent struct {
	Tick           uint64       `json:"tick"`
	Trigger        string       `json:"trigger"`
	ActiveIncident IncidentType `json:"activeIncident"`
	KPIs           []KPI        `json:"kpis"`
	TopBottleneck  *Bottleneck  `json:"topBottleneck,omitempty"`
	CompletedAt    time.Time    `json:"completedAt"`
}

func (e *TickCompletedEvent) EventType() string     { return "wms.ops.tick-completed" }
func (e *TickCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }
