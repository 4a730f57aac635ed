package garden

import "math"

// Time granularity of the simulation. A slice is 10 simulated minutes.
const (
	SlicesPerHour = 6
	HoursPerDay   = 24
	SlicesPerDay  = SlicesPerHour * HoursPerDay
)

const (
	maxHealth = 100.0
	minHealth = 0.0

	// Watering past this multiple of the daily requirement is flooding
	// for the individual plant.
	overWaterCap = 1.5
)

// Plant is a single plant instance. Water is tracked in whole units the
// way irrigation delivers it, with fractional consumption and absorption
// carried in accumulators so sub-unit amounts are never lost between
// slices.
type Plant struct {
	Name                string
	Type                string
	WaterRequirement    int
	CurrentWater        int
	Health              float64
	Age                 int
	Alive               bool
	Infested            bool
	OptimalTempMin      int
	OptimalTempMax      int
	MinTempTolerance    int
	MaxTempTolerance    int
	VulnerableParasites []string

	consumed float64
	absorbed float64
}

// NewPlant builds a plant from a template at full health with a full
// day's water on board.
func NewPlant(name string, tpl PlantTemplate) *Plant {
	return &Plant{
		Name:                name,
		Type:                tpl.Type,
		WaterRequirement:    tpl.WaterRequirement,
		CurrentWater:        tpl.WaterRequirement,
		Health:              maxHealth,
		Alive:               true,
		OptimalTempMin:      tpl.OptimalTempMin,
		OptimalTempMax:      tpl.OptimalTempMax,
		MinTempTolerance:    tpl.MinTempTolerance,
		MaxTempTolerance:    tpl.MaxTempTolerance,
		VulnerableParasites: append([]string(nil), tpl.VulnerableParasites...),
	}
}

// WaterRatio reports current water relative to the daily requirement.
func (p *Plant) WaterRatio() float64 {
	if p.WaterRequirement <= 0 {
		return 1
	}
	return float64(p.CurrentWater) / float64(p.WaterRequirement)
}

// AddWater waters the plant. Amounts past the flooding cap are discarded
// and the plant takes a one-time over-watering penalty.
func (p *Plant) AddWater(amount int, cfg StressConfig) {
	if !p.Alive || amount <= 0 {
		return
	}
	limit := int(math.Round(float64(p.WaterRequirement) * overWaterCap))
	if p.CurrentWater+amount > limit {
		p.CurrentWater = limit
		p.changeHealth(cfg.OverWaterPenalty)
	} else {
		p.CurrentWater += amount
	}
}

// Absorb credits water drawn from the soil. Fractions accumulate until a
// whole unit is reached.
func (p *Plant) Absorb(amount float64) {
	if !p.Alive || amount <= 0 {
		return
	}
	p.absorbed += amount
	if whole := int(p.absorbed); whole > 0 {
		p.CurrentWater += whole
		p.absorbed -= float64(whole)
	}
}

// AbsorptionNeed reports how much water the plant still wants, in units,
// before reaching the target fill ratio. Zero or negative means sated.
func (p *Plant) AbsorptionNeed(targetRatio float64) float64 {
	target := float64(p.WaterRequirement) * targetRatio
	return target - (float64(p.CurrentWater) + p.absorbed)
}

// ConsumeWaterSlice runs one slice of water consumption and the
// hydration stress check.
func (p *Plant) ConsumeWaterSlice(cfg StressConfig) {
	if !p.Alive {
		return
	}
	p.consumed += float64(p.WaterRequirement) / SlicesPerDay
	if whole := int(p.consumed); whole > 0 {
		p.CurrentWater -= whole
		if p.CurrentWater < 0 {
			p.CurrentWater = 0
		}
		p.consumed -= float64(whole)
	}

	switch ratio := p.WaterRatio(); {
	case ratio < 0.10:
		p.changeHealth(cfg.SevereDehydration)
	case ratio < 0.30:
		p.changeHealth(cfg.ModerateDehydration)
	case ratio < 0.50:
		p.changeHealth(cfg.MildDehydration)
	}
}

// ApplyTemperatureStress runs one slice of the temperature health check
// against the current air temperature.
func (p *Plant) ApplyTemperatureStress(temp int, cfg StressConfig) {
	if !p.Alive {
		return
	}
	switch {
	case temp < p.MinTempTolerance || temp > p.MaxTempTolerance:
		p.changeHealth(cfg.OutOfTolerance)
	case temp >= p.OptimalTempMin && temp <= p.OptimalTempMax:
		switch ratio := p.WaterRatio(); {
		case ratio >= 1.00:
			p.changeHealth(cfg.OptimalFullWater)
		case ratio >= 0.75:
			p.changeHealth(cfg.OptimalGoodWater)
		default:
			p.changeHealth(cfg.OptimalLowWater)
		}
	default:
		switch ratio := p.WaterRatio(); {
		case ratio >= 1.05:
			p.changeHealth(cfg.ToleranceHighWater)
		case ratio >= 0.90:
			p.changeHealth(cfg.ToleranceGoodWater)
		default:
			p.changeHealth(cfg.ToleranceLowWater)
		}
	}
}

// IsVulnerableTo reports whether the named parasite can infest this
// plant type.
func (p *Plant) IsVulnerableTo(parasite string) bool {
	for _, v := range p.VulnerableParasites {
		if v == parasite {
			return true
		}
	}
	return false
}

// Infect marks the plant infested and applies the infection penalty.
// An already-infested plant takes the damage again on a fresh infection
// event. Returns false if the plant was not a viable host.
func (p *Plant) Infect(parasite string, cfg StressConfig) bool {
	if !p.Alive || !p.IsVulnerableTo(parasite) {
		return false
	}
	p.Infested = true
	p.changeHealth(cfg.InfectionPenalty)
	return true
}

// Treat clears an infestation at the cost of the treatment penalty.
// Returns false if there was nothing to treat.
func (p *Plant) Treat(cfg StressConfig) bool {
	if !p.Alive || !p.Infested {
		return false
	}
	p.Infested = false
	p.changeHealth(cfg.TreatmentPenalty)
	return true
}

// AdvanceDay ages the plant by one day.
func (p *Plant) AdvanceDay() {
	if p.Alive {
		p.Age++
	}
}

func (p *Plant) changeHealth(delta float64) {
	p.Health += delta
	if p.Health > maxHealth {
		p.Health = maxHealth
	}
	if p.Health <= minHealth {
		p.Health = minHealth
		p.Alive = false
		p.Infested = false
	}
}
