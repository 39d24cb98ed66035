package domain

import "fmt"

// ZoneSummary aggregates the workers of one zone
type ZoneSummary struct {
	Zone     Zone    `json:"zone"`
	Workers  int     `json:"workers"`
	AvgPicks float64 `json:"avgPicks"`
	AvgError float64 `json:"avgError"`
}

// ShiftSummary aggregates the workers of one shift
type ShiftSummary struct {
	Shift    Shift   `json:"shift"`
	AvgPicks float64 `json:"avgPicks"`
	AvgError float64 `json:"avgError"`
}

// WorkforceSummary aggregates the whole roster
type WorkforceSummary struct {
	AvgPicks        float64 `json:"avgPicks"`
	AvgError        float64 `json:"avgError"`
	OvertimeWorkers int     `json:"overtimeWorkers"`
	Efficiency      float64 `json:"efficiency"`
}

// Reassignment suggests moving a picker between zones to balance load
type Reassignment struct {
	FromZone  Zone    `json:"fromZone"`
	ToZone    Zone    `json:"toZone"`
	FromAvg   float64 `json:"fromAvg"`
	ToAvg     float64 `json:"toAvg"`
	Imbalance float64 `json:"imbalance"`
	Message   string  `json:"message"`
}

const reassignmentImbalance = 1.15

type aggregate struct {
	count       int
	picks, errs float64
}

func (a aggregate) avgPicks() float64 { return a.picks / float64(max(a.count, 1)) }
func (a aggregate) avgError() float64 { return a.errs / float64(max(a.count, 1)) }

func aggregateWorkers(workers []WorkerData, keep func(WorkerData) bool) aggregate {
	var a aggregate
	for _, w := range workers {
		if keep(w) {
			a.count++
			a.picks += w.PicksPerHour
			a.errs += w.ErrorRate
		}
	}
	return a
}

// SummarizeZones aggregates workers per zone in zone order.
func SummarizeZones(workers []WorkerData) []ZoneSummary {
	out := make([]ZoneSummary, 0, len(Zones))
	for _, z := range Zones {
		a := aggregateWorkers(workers, func(w WorkerData) bool { return w.Zone == z })
		out = append(out, ZoneSummary{
			Zone:     z,
			Workers:  a.count,
			AvgPicks: round0(a.avgPicks()),
			AvgError: round1(a.avgError()),
		})
	}
	return out
}

// SummarizeShifts aggregates workers per shift in shift order.
func SummarizeShifts(workers []WorkerData) []ShiftSummary {
	out := make([]ShiftSummary, 0, len(Shifts))
	for _, s := range Shifts {
		a := aggregateWorkers(workers, func(w WorkerData) bool { return w.Shift == s })
		out = append(out, ShiftSummary{
			Shift:    s,
			AvgPicks: round0(a.avgPicks()),
			AvgError: round1(a.avgError()),
		})
	}
	return out
}

// SummarizeWorkforce computes roster-wide productivity. Efficiency is
// average picks against a 50 picks/hr benchmark, discounted by error rate.
func SummarizeWorkforce(workers []WorkerData) WorkforceSummary {
	a := aggregateWorkers(workers, func(WorkerData) bool { return true })
	avgPicks := round0(a.avgPicks())
	avgError := round1(a.avgError())

	overtime := 0
	for _, w := range workers {
		if w.HoursWorked > overtimeHours {
			overtime++
		}
	}

	return WorkforceSummary{
		AvgPicks:        avgPicks,
		AvgError:        avgError,
		OvertimeWorkers: overtime,
		Efficiency:      min(100, round0(avgPicks/50*100*(1-avgError/100))),
	}
}

// SuggestReassignment compares zone loads and returns a suggestion when the
// busiest zone exceeds the quietest by more than 15%. Ties resolve to the
// later zone.
func SuggestReassignment(workers []WorkerData) (*Reassignment, bool) {
	var maxZone, minZone Zone
	var maxLoad, minLoad float64
	for i, z := range Zones {
		load := aggregateWorkers(workers, func(w WorkerData) bool { return w.Zone == z }).avgPicks()
		if i == 0 || load >= maxLoad {
			maxZone, maxLoad = z, load
		}
		if i == 0 || load <= minLoad {
			minZone, minLoad = z, load
		}
	}

	denominator := minLoad
	if denominator == 0 {
		denominator = 1
	}
	imbalance := maxLoad / denominator
	if imbalance <= reassignmentImbalance {
		return nil, false
	}

	return &Reassignment{
		FromZone:  minZone,
		ToZone:    maxZone,
		FromAvg:   round0(minLoad),
		ToAvg:     round0(maxLoad),
		Imbalance: Round(imbalance, 2),
		Message: fmt.Sprintf("Move 1 picker from Zone %s (%s picks/hr avg) to Zone %s (%s picks/hr avg) to balance workload.",
			minZone, formatNumber(round0(minLoad)), maxZone, formatNumber(round0(maxLoad))),
	}, true
}

// StageFlags are the alert conditions of a process stage
type StageFlags struct {
	Overloaded bool `json:"overloaded"`
	Warning    bool `json:"warning"`
	QueueAlert bool `json:"queueAlert"`
	ErrorAlert bool `json:"errorAlert"`
}

// FlagsFor evaluates the alert conditions of a stage.
func FlagsFor(s ProcessStage) StageFlags {
	return StageFlags{
		Overloaded: s.Utilization > 90,
		Warning:    s.Utilization > 75,
		QueueAlert: s.QueueSize > 30,
		ErrorAlert: s.ErrorRate > 2,
	}
}
