package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// CalculateBottlenecks ranks the root's direct children by percent deviation
// from target and keeps the top three. Equal impacts keep tree order.
func CalculateBottlenecks(root MetricNode) []Bottleneck {
	bottlenecks := make([]Bottleneck, 0, len(root.Children))
	for _, c := range root.Children {
		position := "at"
		if c.Current > c.Target {
			position = "above"
		}
		bottlenecks = append(bottlenecks, Bottleneck{
			Stage:  c.Label,
			Impact: round1(math.Abs(c.Current-c.Target) / c.Target * 100),
			Description: fmt.Sprintf("%s running %s target: %s%s vs %s%s",
				c.Label, position, formatNumber(c.Current), c.Unit, formatNumber(c.Target), c.Unit),
		})
	}

	sort.SliceStable(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].Impact > bottlenecks[j].Impact
	})

	if len(bottlenecks) > bottleneckLimit {
		bottlenecks = bottlenecks[:bottleneckLimit]
	}
	return bottlenecks
}

// Recommendation rule thresholds
const (
	pickingOverTarget = 1.2
	packingOverTarget = 1.1
	zoneImbalance     = 1.2
)

// GenerateRecommendations evaluates the recommendation rules in order. When
// no rule fires a single nominal recommendation is returned.
func GenerateRecommendations(root MetricNode, workers []WorkerData) []Recommendation {
	var recs []Recommendation

	if picking, ok := childByID(root, MetricPicking); ok && picking.Current > picking.Target*pickingOverTarget {
		over := (picking.Current/picking.Target - 1) * 100
		recs = append(recs, Recommendation{
			Severity: StatusRed,
			Action:   "Add 2 additional pickers to Zone B",
			Reason: fmt.Sprintf("Picking time %smin exceeds target %smin by %s%%",
				formatNumber(picking.Current), formatNumber(picking.Target), strconv.FormatFloat(round0(over), 'f', 0, 64)),
		})
	}

	if packing, ok := childByID(root, MetricPacking); ok && packing.Current > packing.Target*packingOverTarget {
		recs = append(recs, Recommendation{
			Severity: StatusYellow,
			Action:   "Reallocate 1 worker from putaway to packing",
			Reason:   "Packing queue exceeding optimal threshold",
		})
	}

	avgB := averagePicks(workers, ZoneB)
	avgA := averagePicks(workers, ZoneA)
	if avgB > avgA*zoneImbalance {
		recs = append(recs, Recommendation{
			Severity: StatusYellow,
			Action:   "Move 1 picker from Zone A to Zone B",
			Reason: fmt.Sprintf("Zone B workload %s picks/hr vs Zone A %s picks/hr",
				formatNumber(round0(avgB)), formatNumber(round0(avgA))),
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Severity: StatusGreen,
			Action:   "Operations running within normal parameters",
			Reason:   "All metrics within target thresholds",
		})
	}
	return recs
}

// FindMetric looks a metric up by id anywhere in the tree.
func FindMetric(root MetricNode, id string) (MetricNode, bool) {
	if root.ID == id {
		return root, true
	}
	for _, c := range root.Children {
		if found, ok := FindMetric(c, id); ok {
			return found, true
		}
	}
	return MetricNode{}, false
}

// VariancePercent is the signed deviation of a metric from its target.
func VariancePercent(node MetricNode) float64 {
	if node.Target == 0 {
		return 0
	}
	return round1((node.Current - node.Target) / node.Target * 100)
}

// LinkedCostIDs returns, depth-first, the ids of cost nodes linked to the
// given delivery metric.
func LinkedCostIDs(state WarehouseState, metricID string) ([]string, error) {
	if _, ok := FindMetric(state.DeliveryMetrics, metricID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metricID)
	}

	ids := []string{}
	var walk func(n CostNode)
	walk = func(n CostNode) {
		for _, linked := range n.LinkedMetricIDs {
			if linked == metricID {
				ids = append(ids, n.ID)
				break
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(state.CostTree)
	return ids, nil
}

func childByID(root MetricNode, id string) (MetricNode, bool) {
	for _, c := range root.Children {
		if c.ID == id {
			return c, true
		}
	}
	return MetricNode{}, false
}

// averagePicks averages picks per hour over a zone; an empty zone averages to 0.
func averagePicks(workers []WorkerData, zone Zone) float64 {
	var sum float64
	var n int
	for _, w := range workers {
		if w.Zone == zone {
			sum += w.PicksPerHour
			n++
		}
	}
	return sum / float64(max(n, 1))
}

// formatNumber prints v with the shortest representation, e.g. 5 or 5.3.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
