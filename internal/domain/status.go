package domain

// Status ratio thresholds
const (
	greenRatio  = 0.95
	yellowRatio = 0.85
)

// GetStatus grades current against target. The ratio is current/target when
// higher is better and target/current otherwise.
func GetStatus(current, target float64, higherIsBetter bool) Status {
	var ratio float64
	if higherIsBetter {
		ratio = current / target
	} else {
		ratio = target / current
	}

	switch {
	case ratio >= greenRatio:
		return StatusGreen
	case ratio >= yellowRatio:
		return StatusYellow
	default:
		return StatusRed
	}
}

// TrendOf compares a value with its value one tick earlier.
func TrendOf(prev, next float64) Trend {
	switch {
	case next > prev:
		return TrendUp
	case next < prev:
		return TrendDown
	default:
		return TrendFlat
	}
}

// KPIStatus grades a KPI value by its label's fixed bands.
func KPIStatus(label string, value float64) Status {
	switch label {
	case KPIOnTimeDelivery, KPIOrderAccuracy:
		return band(value > 95, value > 90)
	case KPISLARiskScore:
		return band(value < 20, value < 40)
	case KPIOrdersInQueue:
		return band(value < 60, value < 90)
	default:
		return StatusGreen
	}
}

func band(green, yellow bool) Status {
	switch {
	case green:
		return StatusGreen
	case yellow:
		return StatusYellow
	default:
		return StatusRed
	}
}
