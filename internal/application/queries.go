package application

import (
	"context"

	"github.com/wms-platform/ops-simulator/internal/domain"
	"github.com/wms-platform/ops-simulator/pkg/errors"
)

// GetState returns the current snapshot together with the driver state
func (s *SimulationService) GetState(ctx context.Context) StateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateDTO{Simulation: s.statusLocked(), WarehouseState: s.state}
}

// GetDeliveryMetrics returns the delivery metric tree with variances
func (s *SimulationService) GetDeliveryMetrics(ctx context.Context) MetricNodeDTO {
	return ToMetricNodeDTO(s.Snapshot().DeliveryMetrics)
}

// GetLinkedCosts returns the cost nodes linked to a delivery metric
func (s *SimulationService) GetLinkedCosts(ctx context.Context, query GetLinkedCostsQuery) (*LinkedCostsDTO, error) {
	ids, err := domain.LinkedCostIDs(s.Snapshot(), query.MetricID)
	if err != nil {
		return nil, errors.ErrNotFoundWithID("metric", query.MetricID).Wrap(err)
	}
	return &LinkedCostsDTO{MetricID: query.MetricID, CostNodeIDs: ids}, nil
}

// GetWorkforce returns the workforce panel
func (s *SimulationService) GetWorkforce(ctx context.Context) WorkforceDTO {
	return ToWorkforceDTO(s.Snapshot())
}

// GetStages returns the process stages with their alert flags
func (s *SimulationService) GetStages(ctx context.Context) []StageDTO {
	return ToStageDTOs(s.Snapshot().Stages)
}

// GetIncidents returns the incident catalog and the active incident
func (s *SimulationService) GetIncidents(ctx context.Context) IncidentsDTO {
	status := s.Status()
	return IncidentsDTO{
		Catalog:                domain.IncidentCatalog(),
		Active:                 status.ActiveIncident,
		IncidentTicksRemaining: status.IncidentTicksRemaining,
	}
}
