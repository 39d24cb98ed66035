package domain

import (
	"fmt"
	"math"
)

type kpiSeed struct {
	label    string
	min, max float64
	unit     string
	integer  bool
}

var kpiSeeds = []kpiSeed{
	{KPIOnTimeDelivery, 89, 97, "%", false},
	{KPIOrderAccuracy, 96, 99.5, "%", false},
	{KPIOrdersInQueue, 45, 120, "", true},
	{KPIAvgCycleTime, 12, 28, "min", false},
	{KPISLARiskScore, 8, 45, "/100", true},
}

// GenerateKPIs draws the initial headline indicators.
func GenerateKPIs(r *Randomizer) []KPI {
	kpis := make([]KPI, 0, len(kpiSeeds))
	for _, s := range kpiSeeds {
		var value float64
		if s.integer {
			value = round0(r.Between(s.min, s.max, 0))
		} else {
			value = r.Between(s.min, s.max, 1)
		}
		kpis = append(kpis, KPI{
			Label:  s.label,
			Value:  value,
			Unit:   s.unit,
			Trend:  r.Trend(),
			Status: KPIStatus(s.label, value),
		})
	}
	return kpis
}

type metricSeed struct {
	id, label string
	min, max  float64
	target    float64
	trend     Trend
}

var (
	deliverySeed = metricSeed{MetricDelivery, "Delivery Timeliness", 18, 26, 20, TrendUp}

	deliveryChildSeeds = []metricSeed{
		{MetricInbound, "Inbound Processing", 3, 6, 4, TrendFlat},
		{MetricPutaway, "Putaway Time", 2.5, 5, 3, TrendUp},
		{MetricPicking, "Picking Time", 4, 9, 5, TrendUp},
		{MetricPacking, "Packing Time", 3, 6, 4, TrendFlat},
		{MetricDispatch, "Dispatch Time", 2, 4, 3, TrendDown},
	}
)

func newMetricNode(r *Randomizer, s metricSeed) MetricNode {
	current := r.Between(s.min, s.max, 1)
	return MetricNode{
		ID:      s.id,
		Label:   s.label,
		Current: current,
		Target:  s.target,
		Unit:    "min",
		Status:  GetStatus(current, s.target, false),
		Trend:   s.trend,
	}
}

// GenerateDeliveryMetrics draws the two-level delivery timeliness tree.
func GenerateDeliveryMetrics(r *Randomizer) MetricNode {
	root := newMetricNode(r, deliverySeed)
	root.Children = make([]MetricNode, 0, len(deliveryChildSeeds))
	for _, s := range deliveryChildSeeds {
		root.Children = append(root.Children, newMetricNode(r, s))
	}
	return root
}

type costSeed struct {
	id, label        string
	costMin, costMax float64
	weekMin, weekMax float64
	chgMin, chgMax   float64
	links            []string
	children         []costSeed
}

var costTreeSeed = costSeed{
	"total", "Cost per Order", 4.2, 5.8, 28000, 42000, -5, 8, []string{MetricDelivery}, []costSeed{
		{"labor", "Labor Cost", 1.8, 2.6, 12000, 18000, -3, 6, []string{MetricPicking, MetricPacking}, []costSeed{
			{"pick_labor", "Picking Labor", 0.8, 1.2, 5000, 8500, -2, 8, []string{MetricPicking}, nil},
			{"pack_labor", "Packing Labor", 0.5, 0.9, 3500, 6000, -3, 5, []string{MetricPacking}, nil},
			{"rework_labor", "Rework Labor", 0.2, 0.5, 1500, 3500, -1, 12, nil, nil},
		}},
		{"holding", "Inventory Holding", 0.6, 1.1, 4000, 7500, -4, 3, []string{MetricPutaway}, nil},
		{"transport", "Transportation", 0.9, 1.5, 6000, 10000, -2, 5, []string{MetricDispatch}, []costSeed{
			{"expedited", "Expedited Shipping", 0.4, 0.8, 2800, 5500, 0, 10, []string{MetricDispatch}, nil},
			{"failed_delivery", "Failed Delivery", 0.3, 0.6, 2000, 4000, -3, 7, nil, nil},
		}},
		{"returns", "Return Cost", 0.4, 0.8, 2800, 5500, -2, 9, nil, []costSeed{
			{"reverse_logistics", "Reverse Logistics", 0.2, 0.4, 1400, 2800, -1, 6, nil, nil},
			{"refund", "Refund Processing", 0.1, 0.3, 700, 2100, -3, 5, nil, nil},
		}},
	},
}

func newCostNode(r *Randomizer, s costSeed) CostNode {
	links := make([]string, len(s.links))
	copy(links, s.links)

	node := CostNode{
		ID:              s.id,
		Label:           s.label,
		CostPerOrder:    r.Between(s.costMin, s.costMax, 1),
		WeeklyImpact:    r.Between(s.weekMin, s.weekMax, 0),
		ChangePercent:   r.Between(s.chgMin, s.chgMax, 1),
		LinkedMetricIDs: links,
	}
	for _, c := range s.children {
		node.Children = append(node.Children, newCostNode(r, c))
	}
	return node
}

// GenerateCostTree draws the three-level cost-to-serve tree.
func GenerateCostTree(r *Randomizer) CostNode {
	return newCostNode(r, costTreeSeed)
}

// Fatigue thresholds in hours worked
const (
	fatigueHours  = 6
	overtimeHours = 8
	maxShiftHours = 12
)

// GenerateWorkers draws the fixed roster of pickers.
func GenerateWorkers(r *Randomizer) []WorkerData {
	workers := make([]WorkerData, 0, WorkerCount)
	for i := 100; i < 100+WorkerCount; i++ {
		hours := r.Between(2, 10, 1)
		picksFactor, errorFactor := 1.0, 1.0
		if hours > fatigueHours {
			picksFactor, errorFactor = 0.75, 1.8
		}
		workers = append(workers, WorkerData{
			ID:           fmt.Sprintf("Picker #%d", i+1),
			Zone:         Zones[i%len(Zones)],
			Shift:        Shifts[i%len(Shifts)],
			PicksPerHour: round0(r.Between(30, 55, 1) * picksFactor),
			ErrorRate:    round1(r.Between(1, 4, 1) * errorFactor),
			HoursWorked:  hours,
		})
	}
	return workers
}

type stageSeed struct {
	id, label          string
	queueMin, queueMax float64
	cycleMin, cycleMax float64
	utilMin, utilMax   float64
	errMin, errMax     float64
}

var stageSeeds = []stageSeed{
	{StageInboundDock, "Inbound Dock", 5, 25, 3, 6, 55, 90, 0.5, 2},
	{StageStorage, "Storage", 10, 40, 2, 5, 60, 85, 0.3, 1.5},
	{StagePicking, "Picking", 15, 50, 4, 9, 70, 98, 1, 4},
	{StagePacking, "Packing", 8, 35, 3, 7, 65, 92, 0.8, 3},
	{StageDispatch, "Dispatch", 3, 20, 2, 5, 50, 80, 0.2, 1},
}

// GenerateStages draws the five process stages in flow order.
func GenerateStages(r *Randomizer) []ProcessStage {
	stages := make([]ProcessStage, 0, len(stageSeeds))
	for _, s := range stageSeeds {
		stages = append(stages, ProcessStage{
			ID:           s.id,
			Label:        s.label,
			QueueSize:    round0(r.Between(s.queueMin, s.queueMax, 0)),
			AvgCycleTime: r.Between(s.cycleMin, s.cycleMax, 1),
			Utilization:  r.Between(s.utilMin, s.utilMax, 1),
			ErrorRate:    r.Between(s.errMin, s.errMax, 1),
		})
	}
	return stages
}

// GenerateHourlyProductivity draws a fresh intraday curve. Productivity
// decays after the seventh hour and errors rise for the last two.
func GenerateHourlyProductivity(r *Randomizer) []HourlyProductivity {
	series := make([]HourlyProductivity, HourlyBuckets)
	for i := range series {
		fatigue := 1.0
		if i > 6 {
			fatigue = math.Max(0.6, 1-float64(i-6)*0.06)
		}
		spike := 1.0
		if i >= 10 {
			spike = 1.5
		}
		series[i] = HourlyProductivity{
			Hour:         i + FirstShiftHour,
			PicksPerHour: round0(r.Between(38, 52, 1) * fatigue),
			ErrorRate:    round1(r.Between(1.2, 2.5, 1) * spike),
		}
	}
	return series
}

// GenerateInitialState builds a complete first snapshot.
func GenerateInitialState(r *Randomizer) WarehouseState {
	metrics := GenerateDeliveryMetrics(r)
	workers := GenerateWorkers(r)
	return WarehouseState{
		KPIs:               GenerateKPIs(r),
		DeliveryMetrics:    metrics,
		CostTree:           GenerateCostTree(r),
		Workers:            workers,
		Stages:             GenerateStages(r),
		Bottlenecks:        CalculateBottlenecks(metrics),
		Recommendations:    GenerateRecommendations(metrics, workers),
		HourlyProductivity: GenerateHourlyProductivity(r),
	}
}
