package domain

import "math"

// Incident multipliers
const (
	surgeQueueFactor       = 1.6
	surgeStageQueueFactor  = 1.5
	surgeUtilizationFactor = 1.2
	slowdownCycleFactor    = 1.3
	slowdownPickingFactor  = 1.4
	slowdownZoneBFactor    = 0.7
	slowdownStageQueue     = 2
	slowdownUtilization    = 98
	spikeWorkerErrorFactor = 1.8
	spikeStageErrorFactor  = 2
	accuracyFloor          = 88
	maxUtilization         = 100
)

// SimulateUpdate advances prev by one tick under incident. prev is not
// modified. Derived fields are recomputed from the new values and the hourly
// curve is drawn afresh.
func SimulateUpdate(prev WarehouseState, incident IncidentType, r *Randomizer) WarehouseState {
	metrics := updateMetricNode(prev.DeliveryMetrics, incident, r)
	workers := updateWorkers(prev.Workers, incident, r)

	return WarehouseState{
		KPIs:               updateKPIs(prev.KPIs, incident, r),
		DeliveryMetrics:    metrics,
		CostTree:           updateCostNode(prev.CostTree, r),
		Workers:            workers,
		Stages:             updateStages(prev.Stages, incident, r),
		Bottlenecks:        CalculateBottlenecks(metrics),
		Recommendations:    GenerateRecommendations(metrics, workers),
		HourlyProductivity: GenerateHourlyProductivity(r),
	}
}

func updateKPIs(prev []KPI, incident IncidentType, r *Randomizer) []KPI {
	kpis := make([]KPI, 0, len(prev))
	for _, k := range prev {
		value := r.Jitter(k.Value, 3, 1)

		switch {
		case incident == IncidentSurge && k.Label == KPIOrdersInQueue:
			value = round0(value * surgeQueueFactor)
		case incident == IncidentPickingSlowdown && k.Label == KPIAvgCycleTime:
			value = r.Jitter(value*slowdownCycleFactor, 2, 1)
		case incident == IncidentErrorSpike && k.Label == KPIOrderAccuracy:
			value = math.Max(accuracyFloor, round1(value-r.Between(2, 5, 1)))
		}

		kpis = append(kpis, KPI{
			Label:  k.Label,
			Value:  value,
			Unit:   k.Unit,
			Trend:  TrendOf(k.Value, value),
			Status: KPIStatus(k.Label, value),
		})
	}
	return kpis
}

func updateMetricNode(node MetricNode, incident IncidentType, r *Randomizer) MetricNode {
	current := r.Jitter(node.Current, 5, 1)
	if incident == IncidentPickingSlowdown && node.ID == MetricPicking {
		current = r.Jitter(node.Current*slowdownPickingFactor, 3, 1)
	}

	next := MetricNode{
		ID:      node.ID,
		Label:   node.Label,
		Current: current,
		Target:  node.Target,
		Unit:    node.Unit,
		Status:  GetStatus(current, node.Target, false),
		Trend:   TrendOf(node.Current, current),
	}
	if len(node.Children) > 0 {
		next.Children = make([]MetricNode, 0, len(node.Children))
		for _, c := range node.Children {
			next.Children = append(next.Children, updateMetricNode(c, incident, r))
		}
	}
	return next
}

func updateCostNode(node CostNode, r *Randomizer) CostNode {
	cost := r.Jitter(node.CostPerOrder, 4, 2)

	var change float64
	if node.CostPerOrder != 0 {
		change = round1((cost - node.CostPerOrder) / node.CostPerOrder * 100)
	}

	links := make([]string, len(node.LinkedMetricIDs))
	copy(links, node.LinkedMetricIDs)

	next := CostNode{
		ID:              node.ID,
		Label:           node.Label,
		CostPerOrder:    cost,
		WeeklyImpact:    round0(r.Jitter(node.WeeklyImpact, 3, 0)),
		ChangePercent:   change,
		LinkedMetricIDs: links,
	}
	if len(node.Children) > 0 {
		next.Children = make([]CostNode, 0, len(node.Children))
		for _, c := range node.Children {
			next.Children = append(next.Children, updateCostNode(c, r))
		}
	}
	return next
}

func updateWorkers(prev []WorkerData, incident IncidentType, r *Randomizer) []WorkerData {
	workers := make([]WorkerData, 0, len(prev))
	for _, w := range prev {
		hours := math.Min(maxShiftHours, round1(w.HoursWorked+r.Between(0, 0.5, 1)))
		fatigue := 1.0
		if hours > fatigueHours {
			fatigue = 0.8
		}

		picks := round0(r.Jitter(w.PicksPerHour, 5, 1) * fatigue)
		errorRate := round1(r.Jitter(w.ErrorRate, 8, 1))
		if incident == IncidentPickingSlowdown && w.Zone == ZoneB {
			picks = round0(picks * slowdownZoneBFactor)
		}
		if incident == IncidentErrorSpike {
			errorRate = round1(errorRate * spikeWorkerErrorFactor)
		}

		workers = append(workers, WorkerData{
			ID:           w.ID,
			Zone:         w.Zone,
			Shift:        w.Shift,
			PicksPerHour: picks,
			ErrorRate:    errorRate,
			HoursWorked:  hours,
		})
	}
	return workers
}

func updateStages(prev []ProcessStage, incident IncidentType, r *Randomizer) []ProcessStage {
	stages := make([]ProcessStage, 0, len(prev))
	for _, s := range prev {
		queue := math.Max(0, round0(r.Jitter(s.QueueSize, 10, 0)))
		utilization := math.Min(maxUtilization, r.Jitter(s.Utilization, 5, 1))
		errorRate := math.Max(0, r.Jitter(s.ErrorRate, 8, 1))

		if incident == IncidentSurge {
			queue = round0(queue * surgeStageQueueFactor)
			utilization = math.Min(maxUtilization, round1(utilization*surgeUtilizationFactor))
		}
		if incident == IncidentPickingSlowdown && s.ID == StagePicking {
			queue *= slowdownStageQueue
			utilization = slowdownUtilization
		}
		if incident == IncidentErrorSpike {
			errorRate = round1(errorRate * spikeStageErrorFactor)
		}

		stages = append(stages, ProcessStage{
			ID:           s.ID,
			Label:        s.Label,
			QueueSize:    queue,
			AvgCycleTime: r.Jitter(s.AvgCycleTime, 5, 1),
			Utilization:  utilization,
			ErrorRate:    errorRate,
		})
	}
	return stages
}
