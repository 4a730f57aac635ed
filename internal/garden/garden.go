package garden

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/pkg/state"
)

var (
	// ErrUnknownPlantType is returned when planting a type with no
	// registered template.
	ErrUnknownPlantType = errors.New("unknown plant type")
	// ErrInvalidTemperature is returned when an air temperature falls
	// outside the survivable simulation range.
	ErrInvalidTemperature = errors.New("temperature outside valid range")
)

// Hard input-validation bounds for air temperature, in Fahrenheit.
const (
	MinValidTemperature = 40
	MaxValidTemperature = 120
)

const defaultAirTemperature = 70

// Dependencies contains all dependencies of the garden aggregate.
type Dependencies struct {
	Log *logging.SlogManager
}

// Garden is the aggregate root of the simulation: the plant roster, the
// shared soil, the current day and air temperature, and the event
// history. It is not safe for concurrent use; callers serialize access.
type Garden struct {
	deps Dependencies

	plants         []*Plant
	soil           *Soil
	templates      map[string]PlantTemplate
	simulationDay  int
	airTemperature int
	history        []state.Event

	stress     StressConfig
	absorption AbsorptionConfig
}

func New(deps Dependencies) *Garden {
	return &Garden{
		deps:           deps,
		soil:           NewSoil(),
		templates:      make(map[string]PlantTemplate),
		airTemperature: defaultAirTemperature,
		stress:         DefaultStressConfig(),
		absorption:     DefaultAbsorptionConfig(),
	}
}

// SetTuning replaces the stress and absorption models. Call before the
// simulation starts; existing plants pick up the new values on the next
// slice.
func (g *Garden) SetTuning(stress StressConfig, absorption AbsorptionConfig) {
	g.stress = stress
	g.absorption = absorption
}

// RegisterTemplate adds or replaces a plant template.
func (g *Garden) RegisterTemplate(tpl PlantTemplate) {
	g.templates[tpl.Type] = tpl
}

// RegisterDefaultTemplates loads the built-in plant types.
func (g *Garden) RegisterDefaultTemplates() {
	for _, tpl := range DefaultTemplates() {
		g.RegisterTemplate(tpl)
	}
}

// TemplateTypes returns the registered type names, sorted.
func (g *Garden) TemplateTypes() []string {
	out := make([]string, 0, len(g.templates))
	for name := range g.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Template looks up a registered template by type name.
func (g *Garden) Template(typeName string) (PlantTemplate, bool) {
	tpl, ok := g.templates[typeName]
	return tpl, ok
}

// PlantNew instantiates a plant from a registered template and adds it
// to the garden. An unregistered type is logged and skipped.
func (g *Garden) PlantNew(name, typeName string) (*Plant, error) {
	tpl, ok := g.templates[typeName]
	if !ok {
		g.log("garden", fmt.Sprintf("cannot plant %q, no template for type %q", name, typeName), "warn")
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlantType, typeName)
	}
	p := NewPlant(name, tpl)
	g.plants = append(g.plants, p)
	g.recordEvent("plant", fmt.Sprintf("planted %s (%s)", name, typeName))
	return p, nil
}

// ApplyRainfall adds water to the soil and, when the amount exceeds the
// largest living plant's daily requirement, floods the excess directly
// onto every living plant's water buffer scaled by its own requirement.
func (g *Garden) ApplyRainfall(amount int) {
	if amount <= 0 {
		return
	}
	g.soil.AddWater(float64(amount))

	maxReq := g.MaxLivingWaterRequirement()
	if maxReq > 0 && amount > maxReq {
		excess := amount - maxReq
		for _, p := range g.plants {
			if !p.Alive {
				continue
			}
			share := int(math.Round(float64(excess) * float64(p.WaterRequirement) / float64(maxReq)))
			p.AddWater(share, g.stress)
		}
		g.recordEvent("rain", fmt.Sprintf("heavy rainfall of %d units flooded the garden", amount))
	} else {
		g.recordEvent("rain", fmt.Sprintf("rainfall of %d units", amount))
	}
}

// ApplyTemperature sets the air temperature, drags soil temperature
// toward it, and applies temperature stress to every living plant.
// Values outside the valid band are rejected without any mutation.
func (g *Garden) ApplyTemperature(temp int) error {
	if temp < MinValidTemperature || temp > MaxValidTemperature {
		g.log("garden", fmt.Sprintf("rejected temperature %d°F, valid range is [%d,%d]", temp, MinValidTemperature, MaxValidTemperature), "warn")
		return fmt.Errorf("%w: %d", ErrInvalidTemperature, temp)
	}
	g.airTemperature = temp
	g.soil.TrackAirTemperature(temp)
	for _, p := range g.plants {
		p.ApplyTemperatureStress(temp, g.stress)
	}
	return nil
}

// TriggerParasiteInfestation registers the pest in the soil and infests
// every living, vulnerable plant. A pest nothing is vulnerable to is
// still recorded in the soil but logged as harmless.
func (g *Garden) TriggerParasiteInfestation(name string) {
	g.soil.AddPest(name)
	infested := 0
	for _, p := range g.plants {
		if p.Infect(name, g.stress) {
			infested++
		}
	}
	if infested == 0 {
		g.log("garden", fmt.Sprintf("parasite %q found no vulnerable host", name), "info")
	}
	g.recordEvent("parasite", fmt.Sprintf("%s infestation struck %d plant(s)", name, infested))
}

// TreatParasite removes the pest from the soil and treats every living,
// infested, vulnerable plant.
func (g *Garden) TreatParasite(name string) {
	g.soil.RemovePest(name)
	treated := 0
	for _, p := range g.plants {
		if p.Infested && p.IsVulnerableTo(name) && p.Treat(g.stress) {
			treated++
		}
	}
	g.recordEvent("treatment", fmt.Sprintf("treated %s, %d plant(s) cleared", name, treated))
}

// AdvanceSlice runs one time slice in two ordered phases: root
// absorption from soil moisture, then fractional water consumption with
// hydration stress.
func (g *Garden) AdvanceSlice() {
	for _, p := range g.plants {
		if !p.Alive {
			continue
		}
		need := p.AbsorptionNeed(g.absorption.TargetRatio)
		if need <= 0 {
			continue
		}
		draw := g.soil.Moisture * g.absorption.Factor
		if draw > g.absorption.MaxPerSlice {
			draw = g.absorption.MaxPerSlice
		}
		if draw > need {
			draw = need
		}
		if draw <= 0 {
			continue
		}
		p.Absorb(draw)
		g.soil.DrawWater(draw * g.absorption.SoilLoss)
	}
	for _, p := range g.plants {
		p.ConsumeWaterSlice(g.stress)
	}
}

// AdvanceDay ages the plants and runs the soil's daily drift.
func (g *Garden) AdvanceDay() {
	g.simulationDay++
	for _, p := range g.plants {
		p.AdvanceDay()
	}
	g.soil.AdvanceDay()
	g.recordEvent("day", fmt.Sprintf("day %d begins", g.simulationDay))
}

// Reset returns the garden to its pristine state. Registered templates
// survive a reset.
func (g *Garden) Reset() {
	g.plants = nil
	g.soil = NewSoil()
	g.simulationDay = 0
	g.airTemperature = defaultAirTemperature
	g.history = nil
}

// Plants returns the plant roster. The slice must not be mutated.
func (g *Garden) Plants() []*Plant {
	return g.plants
}

// Soil returns the shared soil.
func (g *Garden) Soil() *Soil {
	return g.soil
}

// SimulationDay returns the current day counter.
func (g *Garden) SimulationDay() int {
	return g.simulationDay
}

// AirTemperature returns the current air temperature in °F.
func (g *Garden) AirTemperature() int {
	return g.airTemperature
}

// History returns the recorded event log, oldest first.
func (g *Garden) History() []state.Event {
	out := make([]state.Event, len(g.history))
	copy(out, g.history)
	return out
}

// MinWaterRequirement returns the smallest daily requirement across the
// roster, dead or alive. Zero when the garden is empty.
func (g *Garden) MinWaterRequirement() int {
	min := 0
	for _, p := range g.plants {
		if min == 0 || p.WaterRequirement < min {
			min = p.WaterRequirement
		}
	}
	return min
}

// MaxWaterRequirement returns the largest daily requirement across the
// roster, dead or alive. Zero when the garden is empty.
func (g *Garden) MaxWaterRequirement() int {
	max := 0
	for _, p := range g.plants {
		if p.WaterRequirement > max {
			max = p.WaterRequirement
		}
	}
	return max
}

// MaxLivingWaterRequirement is the flooding threshold: the largest
// daily requirement among living plants.
func (g *Garden) MaxLivingWaterRequirement() int {
	max := 0
	for _, p := range g.plants {
		if p.Alive && p.WaterRequirement > max {
			max = p.WaterRequirement
		}
	}
	return max
}

func (g *Garden) recordEvent(eventType, description string) {
	g.history = append(g.history, state.Event{
		Day:         g.simulationDay,
		Type:        eventType,
		Description: description,
		Time:        time.Now(),
	})
	g.log(eventType, description, "info")
}

func (g *Garden) log(tag, message, level string) {
	if g.deps.Log != nil {
		g.deps.Log.WriteLog(tag, message, level)
	}
}
