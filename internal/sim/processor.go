package sim

import (
	"fmt"
	"strings"

	"github.com/gardensim/engine/internal/autoevent"
	"github.com/gardensim/engine/internal/clock"
	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/weather"
)

// sliceProcessor orchestrates one tick: advance the garden, roll and
// apply auto events, nudge weather telemetry, advance the clock. The
// caller owns locking; the processor assumes exclusive access.
type sliceProcessor struct {
	garden    *garden.Garden
	scheduler *autoevent.Scheduler
	telemetry *weather.Telemetry
	clock     *clock.Clock

	hazardMultiplier float64
}

// processSlice runs one slice. When auto is false the garden still
// advances but no events roll. The returned summary describes what
// fired, for logging only; callers must not branch on it.
func (p *sliceProcessor) processSlice(auto bool) string {
	p.garden.AdvanceSlice()

	var fired []string
	if auto {
		hourOfDay := p.clock.HourOfDay()
		hoursElapsed := p.clock.HoursElapsed()
		for _, ev := range p.scheduler.Generate(hourOfDay, hoursElapsed) {
			switch ev.Kind {
			case autoevent.KindRain:
				applied, _ := p.garden.ClampRainfall(ev.Amount, p.hazardMultiplier)
				p.garden.ApplyRainfall(applied)
				p.telemetry.RecordRainfall(applied, hoursElapsed)
				fired = append(fired, fmt.Sprintf("rain %d", applied))
			case autoevent.KindTemperature:
				if err := p.garden.ApplyTemperature(ev.Temperature); err == nil {
					p.telemetry.RecordTemperature(ev.Temperature)
					fired = append(fired, fmt.Sprintf("temp %d°F", ev.Temperature))
				}
			case autoevent.KindParasite:
				if p.parasiteAllowed(ev.Parasite) {
					p.garden.TriggerParasiteInfestation(ev.Parasite)
					fired = append(fired, fmt.Sprintf("parasite %s", ev.Parasite))
				}
			}
		}
	}

	p.telemetry.NudgeClouds(p.clock.HourOfDay(), p.clock.HoursElapsed())
	p.clock.ProcessSlices(1)
	return strings.Join(fired, ", ")
}

// parasiteAllowed gates new species by the concurrent-pest limit. A
// species already in the soil may always repeat.
func (p *sliceProcessor) parasiteAllowed(name string) bool {
	soil := p.garden.Soil()
	if soil.HasPest(name) {
		return true
	}
	return len(soil.Pests()) < p.scheduler.Config().MaxConcurrentPests
}
