package garden

import "sort"

// Soil defaults and daily drift rates.
const (
	defaultMoisture   = 60.0
	defaultNutrients  = 80.0
	defaultPH         = 7.0
	defaultSoilTemp   = 70.0
	maxMoisture       = 95.0
	dailyEvaporation  = 2.0
	dailyNutrientLoss = 0.5
	dailyPHDrift      = 0.05
	soilTempLagFactor = 0.3
)

// Soil is the shared growing medium. Moisture, nutrients, pH and
// temperature drift once per day; pests live here until a treatment
// sweep removes them.
type Soil struct {
	Moisture    float64
	Nutrients   float64
	PH          float64
	Temperature float64

	pests map[string]struct{}
}

func NewSoil() *Soil {
	return &Soil{
		Moisture:    defaultMoisture,
		Nutrients:   defaultNutrients,
		PH:          defaultPH,
		Temperature: defaultSoilTemp,
		pests:       make(map[string]struct{}),
	}
}

// AddWater raises soil moisture, saturating at the cap.
func (s *Soil) AddWater(amount float64) {
	if amount <= 0 {
		return
	}
	s.Moisture += amount
	if s.Moisture > maxMoisture {
		s.Moisture = maxMoisture
	}
}

// DrawWater removes moisture absorbed by plant roots.
func (s *Soil) DrawWater(amount float64) {
	s.Moisture -= amount
	if s.Moisture < 0 {
		s.Moisture = 0
	}
}

// TrackAirTemperature moves soil temperature toward the air temperature
// with thermal lag.
func (s *Soil) TrackAirTemperature(air int) {
	s.Temperature += (float64(air) - s.Temperature) * soilTempLagFactor
}

// AddPest registers a parasite species in the soil.
func (s *Soil) AddPest(name string) {
	s.pests[name] = struct{}{}
}

// RemovePest clears one parasite species.
func (s *Soil) RemovePest(name string) {
	delete(s.pests, name)
}

// HasPest reports whether the named parasite is present.
func (s *Soil) HasPest(name string) bool {
	_, ok := s.pests[name]
	return ok
}

// Pests returns the parasite species currently in the soil.
func (s *Soil) Pests() []string {
	out := make([]string, 0, len(s.pests))
	for name := range s.pests {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AdvanceDay applies the daily drift: evaporation, nutrient depletion
// and pH creep back toward neutral.
func (s *Soil) AdvanceDay() {
	s.Moisture -= dailyEvaporation
	if s.Moisture < 0 {
		s.Moisture = 0
	}
	s.Nutrients -= dailyNutrientLoss
	if s.Nutrients < 0 {
		s.Nutrients = 0
	}
	switch {
	case s.PH < defaultPH:
		s.PH += dailyPHDrift
		if s.PH > defaultPH {
			s.PH = defaultPH
		}
	case s.PH > defaultPH:
		s.PH -= dailyPHDrift
		if s.PH < defaultPH {
			s.PH = defaultPH
		}
	}
}
