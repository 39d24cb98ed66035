package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costIDs(n CostNode) []string {
	ids := []string{n.ID}
	for _, c := range n.Children {
		ids = append(ids, costIDs(c)...)
	}
	return ids
}

func TestGenerateInitialStateShape(t *testing.T) {
	s := GenerateInitialState(NewRandomizer(1))

	require.Len(t, s.KPIs, 5)
	labels := map[string]bool{}
	for _, k := range s.KPIs {
		assert.False(t, labels[k.Label], "duplicate KPI %s", k.Label)
		labels[k.Label] = true
		assert.Equal(t, KPIStatus(k.Label, k.Value), k.Status)
	}

	assert.Equal(t, MetricDelivery, s.DeliveryMetrics.ID)
	var childIDs []string
	for _, c := range s.DeliveryMetrics.Children {
		childIDs = append(childIDs, c.ID)
		assert.Empty(t, c.Children)
		assert.Equal(t, GetStatus(c.Current, c.Target, false), c.Status)
	}
	assert.Equal(t, []string{MetricInbound, MetricPutaway, MetricPicking, MetricPacking, MetricDispatch}, childIDs)

	assert.Equal(t, []string{
		"total", "labor", "pick_labor", "pack_labor", "rework_labor", "holding",
		"transport", "expedited", "failed_delivery", "returns", "reverse_logistics", "refund",
	}, costIDs(s.CostTree))

	require.Len(t, s.Stages, 5)
	assert.Equal(t, StageInboundDock, s.Stages[0].ID)
	assert.Equal(t, StageDispatch, s.Stages[4].ID)

	require.Len(t, s.HourlyProductivity, HourlyBuckets)
	for i, h := range s.HourlyProductivity {
		assert.Equal(t, i+6, h.Hour)
	}

	assert.Equal(t, CalculateBottlenecks(s.DeliveryMetrics), s.Bottlenecks)
	assert.Equal(t, GenerateRecommendations(s.DeliveryMetrics, s.Workers), s.Recommendations)
}

func TestGenerateWorkers(t *testing.T) {
	workers := GenerateWorkers(NewRandomizer(5))

	require.Len(t, workers, WorkerCount)
	assert.Equal(t, "Picker #101", workers[0].ID)
	assert.Equal(t, ZoneB, workers[0].Zone)
	assert.Equal(t, ShiftA, workers[0].Shift)
	assert.Equal(t, "Picker #118", workers[17].ID)

	perZone := map[Zone]int{}
	for _, w := range workers {
		perZone[w.Zone]++
		assert.GreaterOrEqual(t, w.HoursWorked, 2.0)
		assert.LessOrEqual(t, w.HoursWorked, 10.0)
		assert.Equal(t, w.PicksPerHour, Round(w.PicksPerHour, 0))
	}
	assert.Equal(t, map[Zone]int{ZoneA: 6, ZoneB: 6, ZoneC: 6}, perZone)
}

func TestCostTreeLinksReferenceMetrics(t *testing.T) {
	s := GenerateInitialState(NewRandomizer(3))

	var walk func(CostNode)
	walk = func(n CostNode) {
		for _, id := range n.LinkedMetricIDs {
			_, ok := FindMetric(s.DeliveryMetrics, id)
			assert.True(t, ok, "cost node %s links unknown metric %s", n.ID, id)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.CostTree)
}

func TestGenerateHourlyProductivityFatigue(t *testing.T) {
	r := NewRandomizer(11)
	for run := 0; run < 20; run++ {
		series := GenerateHourlyProductivity(r)
		for i, h := range series {
			if i >= 10 {
				assert.GreaterOrEqual(t, h.ErrorRate, 1.8)
			}
			if i == 11 {
				assert.LessOrEqual(t, h.PicksPerHour, 52*0.7+0.5)
			}
		}
	}
}
