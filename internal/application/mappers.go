package application

import "github.com/wms-platform/ops-simulator/internal/domain"

// ToMetricNodeDTO converts a metric tree, adding variance to every node
func ToMetricNodeDTO(node domain.MetricNode) MetricNodeDTO {
	dto := MetricNodeDTO{
		ID:              node.ID,
		Label:           node.Label,
		Current:         node.Current,
		Target:          node.Target,
		Unit:            node.Unit,
		Status:          string(node.Status),
		Trend:           string(node.Trend),
		VariancePercent: domain.VariancePercent(node),
	}
	if len(node.Children) > 0 {
		dto.Children = make([]MetricNodeDTO, 0, len(node.Children))
		for _, c := range node.Children {
			dto.Children = append(dto.Children, ToMetricNodeDTO(c))
		}
	}
	return dto
}

// ToWorkforceDTO derives the workforce panel from a snapshot
func ToWorkforceDTO(state domain.WarehouseState) WorkforceDTO {
	reassignment, _ := domain.SuggestReassignment(state.Workers)
	return WorkforceDTO{
		Workers:            state.Workers,
		Zones:              domain.SummarizeZones(state.Workers),
		Shifts:             domain.SummarizeShifts(state.Workers),
		Summary:            domain.SummarizeWorkforce(state.Workers),
		Reassignment:       reassignment,
		HourlyProductivity: state.HourlyProductivity,
	}
}

// ToStageDTOs attaches alert flags to each stage
func ToStageDTOs(stages []domain.ProcessStage) []StageDTO {
	out := make([]StageDTO, 0, len(stages))
	for _, s := range stages {
		out = append(out, StageDTO{ProcessStage: s, Flags: domain.FlagsFor(s)})
	}
	return out
}
