package garden

// StressConfig holds the per-slice health deltas applied during water
// consumption and temperature checks. The band values are already
// per-slice rates: a plant left in a band for a full day accrues
// SlicesPerDay times the value (severe dehydration costs about 30
// health per day).
type StressConfig struct {
	// Dehydration penalties by water ratio band.
	SevereDehydration   float64 // ratio < 0.10
	ModerateDehydration float64 // ratio < 0.30
	MildDehydration     float64 // ratio < 0.50

	// OutOfTolerance is the penalty when air temperature leaves the
	// plant's survivable band entirely.
	OutOfTolerance float64

	// Recovery bonuses inside the optimal temperature band, keyed on
	// how well watered the plant is.
	OptimalFullWater float64 // ratio >= 1.00
	OptimalGoodWater float64 // ratio >= 0.75
	OptimalLowWater  float64 // otherwise

	// Deltas inside the tolerance band but outside optimal.
	ToleranceHighWater float64 // ratio >= 1.05
	ToleranceGoodWater float64 // ratio >= 0.90
	ToleranceLowWater  float64 // otherwise, a penalty

	// Event-scoped penalties.
	InfectionPenalty float64 // applied once when an infestation lands
	TreatmentPenalty float64 // applied once when a plant is treated
	OverWaterPenalty float64 // applied when watering past the cap
}

// DefaultStressConfig returns the stock stress model.
func DefaultStressConfig() StressConfig {
	return StressConfig{
		SevereDehydration:   -0.21,
		ModerateDehydration: -0.14,
		MildDehydration:     -0.07,
		OutOfTolerance:      -0.104,
		OptimalFullWater:    0.07,
		OptimalGoodWater:    0.035,
		OptimalLowWater:     0.014,
		ToleranceHighWater:  0.035,
		ToleranceGoodWater:  0.007,
		ToleranceLowWater:   -0.035,
		InfectionPenalty:    -3,
		TreatmentPenalty:    -1,
		OverWaterPenalty:    -5,
	}
}

// AbsorptionConfig governs how plants draw water out of the soil each
// slice.
type AbsorptionConfig struct {
	// Factor scales soil moisture into a per-slice draw amount.
	Factor float64
	// MaxPerSlice caps a single plant's draw in one slice.
	MaxPerSlice float64
	// TargetRatio is the fill level, relative to the daily requirement,
	// that absorption stops at.
	TargetRatio float64
	// SoilLoss is the soil moisture removed per unit of water absorbed.
	SoilLoss float64
}

// DefaultAbsorptionConfig returns the stock absorption model.
func DefaultAbsorptionConfig() AbsorptionConfig {
	return AbsorptionConfig{
		Factor:      0.02,
		MaxPerSlice: 1.5,
		TargetRatio: 1.10,
		SoilLoss:    0.4,
	}
}
