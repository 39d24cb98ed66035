package domain

import (
	"fmt"
	"strings"
)

// IncidentType is a scenario layered on top of the baseline jitter
type IncidentType string

const (
	IncidentNone            IncidentType = "none"
	IncidentSurge           IncidentType = "surge"
	IncidentPickingSlowdown IncidentType = "picking_slowdown"
	IncidentErrorSpike      IncidentType = "error_spike"
)

// IncidentInfo describes an incident for operators
type IncidentInfo struct {
	Type        IncidentType `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

var incidentCatalog = []IncidentInfo{
	{IncidentSurge, "Order Surge", "Simulate 60% increase in incoming orders"},
	{IncidentPickingSlowdown, "Picking Slowdown", "Simulate equipment failure in Zone B"},
	{IncidentErrorSpike, "Error Spike", "Simulate quality control breakdown"},
}

// IncidentCatalog returns the triggerable incidents.
func IncidentCatalog() []IncidentInfo {
	out := make([]IncidentInfo, len(incidentCatalog))
	copy(out, incidentCatalog)
	return out
}

// IncidentNames lists every accepted incident type, including none.
func IncidentNames() []string {
	names := []string{string(IncidentNone)}
	for _, info := range incidentCatalog {
		names = append(names, string(info.Type))
	}
	return names
}

// ParseIncidentType parses an incident type. An empty string means none.
func ParseIncidentType(s string) (IncidentType, error) {
	t := IncidentType(strings.TrimSpace(s))
	if t == "" {
		return IncidentNone, nil
	}
	if t.IsValid() {
		return t, nil
	}
	return IncidentNone, fmt.Errorf("%w: %q", ErrInvalidIncidentType, s)
}

// IsValid reports whether t is a known incident type.
func (t IncidentType) IsValid() bool {
	switch t {
	case IncidentNone, IncidentSurge, IncidentPickingSlowdown, IncidentErrorSpike:
		return true
	}
	return false
}

// Active reports whether t is a real incident.
func (t IncidentType) Active() bool {
	return t != IncidentNone && t != ""
}

func (t IncidentType) String() string {
	if t == "" {
		return string(IncidentNone)
	}
	return string(t)
}
