package sim

import (
	"github.com/gardensim/engine/internal/clock"
	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/modules"
	"github.com/gardensim/engine/internal/weather"
	"github.com/gardensim/engine/pkg/state"
)

// buildSnapshot captures the full simulation state as one versioned,
// strongly-typed value. Every field is copied; the snapshot shares no
// memory with live simulation state.
func buildSnapshot(g *garden.Garden, clk *clock.Clock, tel *weather.Telemetry, mgr *modules.Manager) state.Snapshot {
	hourOfDay := clk.HourOfDay()
	hoursElapsed := clk.HoursElapsed()

	snap := state.Snapshot{
		Version:        state.SnapshotVersion,
		Day:            g.SimulationDay(),
		AirTemperature: g.AirTemperature(),
		HoursElapsed:   hoursElapsed,
		HourOfDay:      hourOfDay,
		Weather:        tel.Snapshot(hourOfDay, hoursElapsed),
		Modules:        mgr.Status(),
	}

	soil := g.Soil()
	snap.Soil = state.SoilStatus{
		Moisture:    soil.Moisture,
		Nutrients:   soil.Nutrients,
		PH:          soil.PH,
		Temperature: soil.Temperature,
		Pests:       soil.Pests(),
	}

	for _, p := range g.Plants() {
		snap.Plants = append(snap.Plants, state.PlantStatus{
			Name:             p.Name,
			Type:             p.Type,
			Health:           p.Health,
			Water:            p.CurrentWater,
			WaterRequirement: p.WaterRequirement,
			Age:              p.Age,
			Alive:            p.Alive,
			Infested:         p.Infested,
			Vulnerabilities:  append([]string(nil), p.VulnerableParasites...),
		})
		snap.TotalPlants++
		if p.Alive {
			snap.AlivePlants++
		} else {
			snap.DeadPlants++
		}
	}

	return snap
}
