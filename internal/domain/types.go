package domain

import "errors"

// Errors
var (
	ErrInvalidIncidentType = errors.New("invalid incident type")
	ErrUnknownMetric       = errors.New("unknown metric")
	ErrSimulationRunning   = errors.New("simulation already running")
)

// Status is the traffic-light health of a value
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Trend is the direction of a value over the last tick
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Zone is a picking zone
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
	ZoneC Zone = "C"
)

// Zones lists the picking zones in display order
var Zones = []Zone{ZoneA, ZoneB, ZoneC}

// Shift is a work shift
type Shift string

const (
	ShiftA Shift = "A"
	ShiftB Shift = "B"
)

// Shifts lists the shifts in display order
var Shifts = []Shift{ShiftA, ShiftB}

// KPI labels
const (
	KPIOnTimeDelivery = "On-Time Delivery"
	KPIOrderAccuracy  = "Order Accuracy"
	KPIOrdersInQueue  = "Orders in Queue"
	KPIAvgCycleTime   = "Avg Cycle Time"
	KPISLARiskScore   = "SLA Risk Score"
)

// Delivery metric ids
const (
	MetricDelivery = "delivery"
	MetricInbound  = "inbound"
	MetricPutaway  = "putaway"
	MetricPicking  = "picking"
	MetricPacking  = "packing"
	MetricDispatch = "dispatch"
)

// Process stage ids, in physical flow order
const (
	StageInboundDock = "inbound_dock"
	StageStorage     = "storage"
	StagePicking     = "picking_stage"
	StagePacking     = "packing_stage"
	StageDispatch    = "dispatch_stage"
)

// Fixed cardinalities
const (
	WorkerCount     = 18
	HourlyBuckets   = 12
	FirstShiftHour  = 6
	bottleneckLimit = 3
)

// KPI is a headline indicator
type KPI struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Trend  Trend   `json:"trend"`
	Status Status  `json:"status"`
}

// MetricNode is a node of the delivery timeliness breakdown. Lower is better
// for every node.
type MetricNode struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Current  float64      `json:"current"`
	Target   float64      `json:"target"`
	Unit     string       `json:"unit"`
	Status   Status       `json:"status"`
	Trend    Trend        `json:"trend"`
	Children []MetricNode `json:"children,omitempty"`
}

// CostNode is a node of the cost-to-serve breakdown
type CostNode struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	CostPerOrder    float64    `json:"costPerOrder"`
	WeeklyImpact    float64    `json:"weeklyImpact"`
	ChangePercent   float64    `json:"changePercent"`
	LinkedMetricIDs []string   `json:"linkedMetricIds"`
	Children        []CostNode `json:"children,omitempty"`
}

// WorkerData is one picker on the floor
type WorkerData struct {
	ID           string  `json:"id"`
	Zone         Zone    `json:"zone"`
	Shift        Shift   `json:"shift"`
	PicksPerHour float64 `json:"picksPerHour"`
	ErrorRate    float64 `json:"errorRate"`
	HoursWorked  float64 `json:"hoursWorked"`
}

// ProcessStage is one step of the inbound to dispatch flow
type ProcessStage struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	QueueSize    float64 `json:"queueSize"`
	AvgCycleTime float64 `json:"avgCycleTime"`
	Utilization  float64 `json:"utilization"`
	ErrorRate    float64 `json:"errorRate"`
}

// Bottleneck is a delivery sub-metric ranked by deviation from target
type Bottleneck struct {
	Stage       string  `json:"stage"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// Recommendation is a rule-based suggested action
type Recommendation struct {
	Severity Status `json:"severity"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// HourlyProductivity is one bucket of the intraday productivity curve
type HourlyProductivity struct {
	Hour         int     `json:"hour"`
	PicksPerHour float64 `json:"picksPerHour"`
	ErrorRate    float64 `json:"errorRate"`
}

// WarehouseState is a complete snapshot. A snapshot is never modified after
// it is built; every tick produces a new one.
type WarehouseState struct {
	KPIs               []KPI                `json:"kpis"`
	DeliveryMetrics    MetricNode           `json:"deliveryMetrics"`
	CostTree           CostNode             `json:"costTree"`
	Workers            []WorkerData         `json:"workers"`
	Stages             []ProcessStage       `json:"stages"`
	Bottlenecks        []Bottleneck         `json:"bottlenecks"`
	Recommendations    []Recommendation     `json:"recommendations"`
	HourlyProductivity []HourlyProductivity `json:"hourlyProductivity"`
}
