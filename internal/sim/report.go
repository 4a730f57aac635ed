package sim

import (
	"fmt"
	"strings"

	"github.com/gardensim/engine/pkg/state"
)

// Health and water classification bands used in log output.
func healthLabel(p state.PlantStatus) string {
	switch {
	case !p.Alive:
		return "Dead"
	case p.Health < 20:
		return "Dying"
	case p.Health < 50:
		return "Sick"
	case p.Health < 80:
		return "Fair"
	default:
		return "Healthy"
	}
}

func waterLabel(p state.PlantStatus) string {
	if p.WaterRequirement <= 0 {
		return "Good"
	}
	ratio := float64(p.Water) / float64(p.WaterRequirement)
	switch {
	case ratio < 0.2:
		return "Dry"
	case ratio < 0.5:
		return "Low"
	case ratio < 0.9:
		return "OK"
	default:
		return "Good"
	}
}

// logAlertsLocked compares consecutive snapshots and raises ALERT lines
// for condition transitions only, so a plant sitting in a bad band does
// not alert on every slice. Caller holds the mutex.
func (a *API) logAlertsLocked(prev, cur state.Snapshot) {
	if a.log == nil {
		return
	}
	prevByName := make(map[string]state.PlantStatus, len(prev.Plants))
	for _, p := range prev.Plants {
		prevByName[p.Name] = p
	}

	for _, p := range cur.Plants {
		before, known := prevByName[p.Name]
		if !p.Alive {
			if !known || before.Alive {
				a.log.WriteLog("ALERT", fmt.Sprintf("%s has died", p.Name), "ERROR")
			}
			continue
		}
		if p.Health < 20 && (!known || before.Health >= 20) {
			a.log.WriteLog("ALERT", fmt.Sprintf("%s is dying (health %.1f)", p.Name, p.Health), "WARN")
		} else if p.Health < 50 && (!known || before.Health >= 50) {
			a.log.WriteLog("ALERT", fmt.Sprintf("%s is sick (health %.1f)", p.Name, p.Health), "WARN")
		}
		if p.WaterRequirement > 0 {
			ratio := float64(p.Water) / float64(p.WaterRequirement)
			beforeRatio := 1.0
			if known && before.WaterRequirement > 0 {
				beforeRatio = float64(before.Water) / float64(before.WaterRequirement)
			}
			if ratio < 0.2 && beforeRatio >= 0.2 {
				a.log.WriteLog("ALERT", fmt.Sprintf("%s is critically dry (%.0f%% of requirement)", p.Name, ratio*100), "WARN")
			}
		}
		if p.Infested && (!known || !before.Infested) {
			a.log.WriteLog("ALERT", fmt.Sprintf("%s is infested", p.Name), "WARN")
		}
	}
}

// logStateReport writes the day summary and one detail line per plant.
func (a *API) logStateReport(snap state.Snapshot) {
	if a.log == nil {
		return
	}
	a.log.WriteLog("STATE", fmt.Sprintf(
		"day %d hour %d: %d/%d plants alive, air %d°F, soil moisture %.1f%%, %s",
		snap.Day, snap.HourOfDay, snap.AlivePlants, snap.TotalPlants,
		snap.AirTemperature, snap.Soil.Moisture, snap.Weather.Condition), "INFO")

	for _, p := range snap.Plants {
		detail := fmt.Sprintf("%s (%s): %s, water %s (%d/%d), age %dd",
			p.Name, p.Type, healthLabel(p), waterLabel(p), p.Water, p.WaterRequirement, p.Age)
		if p.Infested {
			detail += ", infested"
		}
		a.log.WriteLog("STATE", detail, "DEBUG")
	}
	if len(snap.Soil.Pests) > 0 {
		a.log.WriteLog("STATE", "active pests: "+strings.Join(snap.Soil.Pests, ", "), "DEBUG")
	}
}
