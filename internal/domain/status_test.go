package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name           string
		current        float64
		target         float64
		higherIsBetter bool
		want           Status
	}{
		{"ratio exactly 0.95 is green", 95, 100, true, StatusGreen},
		{"ratio just below 0.95 is yellow", 94.9, 100, true, StatusYellow},
		{"ratio exactly 0.85 is yellow", 85, 100, true, StatusYellow},
		{"ratio just below 0.85 is red", 84.9, 100, true, StatusRed},
		{"above target is green when higher is better", 120, 100, true, StatusGreen},
		{"lower is better at target", 5, 5, false, StatusGreen},
		{"lower is better ratio exactly 0.95", 100, 95, false, StatusGreen},
		{"lower is better ratio exactly 0.85", 100, 85, false, StatusYellow},
		{"lower is better far above target", 9, 5, false, StatusRed},
		{"lower is better below target", 3, 5, false, StatusGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStatus(tt.current, tt.target, tt.higherIsBetter))
		})
	}
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, TrendUp, TrendOf(5, 5.1))
	assert.Equal(t, TrendDown, TrendOf(5, 4.9))
	assert.Equal(t, TrendFlat, TrendOf(5, 5))
}

func TestKPIStatus(t *testing.T) {
	tests := []struct {
		label string
		value float64
		want  Status
	}{
		{KPIOnTimeDelivery, 95.1, StatusGreen},
		{KPIOnTimeDelivery, 95, StatusYellow},
		{KPIOrderAccuracy, 90, StatusRed},
		{KPISLARiskScore, 19, StatusGreen},
		{KPISLARiskScore, 20, StatusYellow},
		{KPISLARiskScore, 40, StatusRed},
		{KPIOrdersInQueue, 59, StatusGreen},
		{KPIOrdersInQueue, 89, StatusYellow},
		{KPIOrdersInQueue, 150, StatusRed},
		{KPIAvgCycleTime, 45, StatusGreen},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KPIStatus(tt.label, tt.value), "%s=%v", tt.label, tt.value)
	}
}
