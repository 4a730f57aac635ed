package garden

import "math"

// DefaultHazardMultiplier scales the plant-driven recommended maximum
// into the hard rainfall ceiling.
const DefaultHazardMultiplier = 1.5

// MaxRainfallAllowance returns the hard ceiling for one rainfall event:
// the largest plant requirement scaled by the hazard multiplier. Zero
// when the garden is empty.
func (g *Garden) MaxRainfallAllowance(multiplier float64) int {
	maxReq := g.MaxWaterRequirement()
	if maxReq == 0 {
		return 0
	}
	if multiplier < 1 {
		multiplier = 1
	}
	return int(math.Round(float64(maxReq) * multiplier))
}

// ClampRainfall applies the single rainfall policy used by every entry
// path: the applied amount always lands in [minReq, allowance]. Amounts
// past the flat plant maximum but under the allowance are allowed
// through as hazardous rain; amounts past the allowance are cut to it.
// The second return reports whether the input was adjusted.
func (g *Garden) ClampRainfall(amount int, multiplier float64) (int, bool) {
	minReq := g.MinWaterRequirement()
	allowance := g.MaxRainfallAllowance(multiplier)
	if allowance == 0 {
		return amount, false
	}
	switch {
	case amount < minReq:
		g.log("rainfall", "rainfall below minimum plant requirement, raising to minimum", "debug")
		return minReq, true
	case amount > allowance:
		g.log("rainfall", "rainfall above hazard ceiling, clamping", "warn")
		return allowance, true
	case amount > g.MaxWaterRequirement():
		g.log("rainfall", "rainfall above recommended plant maximum, allowing as hazardous rain", "warn")
		return amount, false
	default:
		return amount, false
	}
}
