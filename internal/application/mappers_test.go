package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/ops-simulator/internal/domain"
)

func TestToMetricNodeDTO(t *testing.T) {
	root := domain.MetricNode{
		ID: "delivery", Label: "Delivery Timeliness", Current: 22, Target: 20, Unit: "min",
		Status: domain.StatusYellow, Trend: domain.TrendUp,
		Children: []domain.MetricNode{
			{ID: "picking", Label: "Picking Time", Current: 4.5, Target: 5, Unit: "min", Status: domain.StatusGreen, Trend: domain.TrendDown},
		},
	}

	dto := ToMetricNodeDTO(root)

	assert.Equal(t, 10.0, dto.VariancePercent)
	assert.Equal(t, "yellow", dto.Status)
	require.Len(t, dto.Children, 1)
	assert.Equal(t, -10.0, dto.Children[0].VariancePercent)
	assert.Equal(t, "down", dto.Children[0].Trend)
	assert.Nil(t, dto.Children[0].Children)
}

func TestToStageDTOs(t *testing.T) {
	stages := []domain.ProcessStage{
		{ID: domain.StagePicking, Label: "Picking", QueueSize: 42, Utilization: 98, ErrorRate: 2.5},
		{ID: domain.StageDispatch, Label: "Dispatch", QueueSize: 5, Utilization: 60, ErrorRate: 0.4},
	}

	dtos := ToStageDTOs(stages)

	require.Len(t, dtos, 2)
	assert.Equal(t, domain.StageFlags{Overloaded: true, Warning: true, QueueAlert: true, ErrorAlert: true}, dtos[0].Flags)
	assert.Equal(t, domain.StageFlags{}, dtos[1].Flags)
	assert.Equal(t, "Picking", dtos[0].Label)
}

func TestToWorkforceDTO(t *testing.T) {
	state := domain.GenerateInitialState(domain.NewRandomizer(4))

	dto := ToWorkforceDTO(state)

	assert.Equal(t, state.Workers, dto.Workers)
	assert.Equal(t, state.HourlyProductivity, dto.HourlyProductivity)
	assert.Equal(t, domain.SummarizeWorkforce(state.Workers), dto.Summary)
	if r, ok := domain.SuggestReassignment(state.Workers); ok {
		assert.Equal(t, r, dto.Reassignment)
	} else {
		assert.Nil(t, dto.Reassignment)
	}
}
