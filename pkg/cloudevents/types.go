package cloudevents

import (
	"time"
)

// Event types published by the operations simulator
const (
	IncidentTriggered = "wms.ops.incident-triggered"
	IncidentCleared   = "wms.ops.incident-cleared"
	SimulationPaused  = "wms.ops.simulation-paused"
	SimulationResumed = "wms.ops.simulation-resumed"
	TickCompleted     = "wms.ops.tick-completed"
)

// SourceOpsSimulator is the CloudEvents source of the simulator
const SourceOpsSimulator = "/wms/ops-simulator"

// SpecVersion is the CloudEvents spec version emitted
const SpecVersion = "1.0"

// WMSCloudEvent represents a CloudEvents v1.0 structured-mode event
type WMSCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Extensions
	CorrelationID string `json:"wmscorrelationid,omitempty"`
	TraceParent   string `json:"traceparent,omitempty"`
	TraceState    string `json:"tracestate,omitempty"`
}
