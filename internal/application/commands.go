package application

// TriggerIncidentCommand represents the command to trigger or clear an incident
type TriggerIncidentCommand struct {
	Type string
}

// SetPausedCommand represents the command to pause or resume the timer
type SetPausedCommand struct {
	Paused bool
}

// GetLinkedCostsQuery represents the query for cost nodes linked to a delivery metric
type GetLinkedCostsQuery struct {
	MetricID string
}
