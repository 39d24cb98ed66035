package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncidentType(t *testing.T) {
	tests := []struct {
		in      string
		want    IncidentType
		wantErr bool
	}{
		{"surge", IncidentSurge, false},
		{"picking_slowdown", IncidentPickingSlowdown, false},
		{" error_spike ", IncidentErrorSpike, false},
		{"none", IncidentNone, false},
		{"", IncidentNone, false},
		{"fire", IncidentNone, true},
		{"SURGE", IncidentNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIncidentType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidIncidentType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncidentCatalog(t *testing.T) {
	catalog := IncidentCatalog()
	require.Len(t, catalog, 3)
	assert.Equal(t, "Order Surge", catalog[0].Label)

	catalog[0].Label = "changed"
	assert.Equal(t, "Order Surge", IncidentCatalog()[0].Label)

	assert.Equal(t, []string{"none", "surge", "picking_slowdown", "error_spike"}, IncidentNames())
}

func TestIncidentTypeActive(t *testing.T) {
	assert.True(t, IncidentSurge.Active())
	assert.False(t, IncidentNone.Active())
	assert.False(t, IncidentType("").Active())
	assert.Equal(t, "none", IncidentType("").String())
}
