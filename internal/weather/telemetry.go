package weather

import (
	"github.com/gardensim/engine/pkg/state"
)

// Cloud-cover targets and the exponential smoothing rate. Telemetry is
// display-only and never feeds back into plant or soil physics.
const (
	cloudTargetRain  = 0.85
	cloudTargetNight = 0.45
	cloudTargetDay   = 0.20
	cloudSmoothing   = 0.15

	// Rain is reported as ongoing for this many hours after the last
	// recorded rainfall.
	rainLingerHours = 1
)

// Telemetry tracks derived weather state for snapshots: smoothed cloud
// cover, the last rainfall and temperature seen, and a textual
// condition.
type Telemetry struct {
	cloudCover      float64
	lastRainAmount  int
	lastRainHour    int
	rainRecorded    bool
	lastTemperature int
	tempRecorded    bool
}

func NewTelemetry() *Telemetry {
	return &Telemetry{cloudCover: cloudTargetDay, lastTemperature: DiurnalTemperature(12)}
}

// RecordRainfall notes a rainfall event at the given absolute sim hour.
func (t *Telemetry) RecordRainfall(amount, hoursElapsed int) {
	t.lastRainAmount = amount
	t.lastRainHour = hoursElapsed
	t.rainRecorded = true
}

// RecordTemperature notes the most recent applied air temperature.
func (t *Telemetry) RecordTemperature(temp int) {
	t.lastTemperature = temp
	t.tempRecorded = true
}

// NudgeClouds moves cloud cover one smoothing step toward the target
// implied by current conditions. Called once per slice.
func (t *Telemetry) NudgeClouds(hourOfDay, hoursElapsed int) {
	target := cloudTargetDay
	switch {
	case t.raining(hoursElapsed):
		target = cloudTargetRain
	case IsNightHour(hourOfDay):
		target = cloudTargetNight
	}
	t.cloudCover += (target - t.cloudCover) * cloudSmoothing
}

func (t *Telemetry) raining(hoursElapsed int) bool {
	return t.rainRecorded && hoursElapsed-t.lastRainHour <= rainLingerHours
}

// Snapshot builds the weather section of a state snapshot.
func (t *Telemetry) Snapshot(hourOfDay, hoursElapsed int) state.WeatherStatus {
	night := IsNightHour(hourOfDay)
	raining := t.raining(hoursElapsed)
	hoursSinceRain := -1
	if t.rainRecorded {
		hoursSinceRain = hoursElapsed - t.lastRainHour
	}
	return state.WeatherStatus{
		Night:          night,
		DayPhase:       dayPhase(hourOfDay),
		HourOfDay:      hourOfDay,
		CloudCover:     t.cloudCover,
		CloudCoverPct:  int(t.cloudCover*100 + 0.5),
		Raining:        raining,
		LastRain:       t.lastRainAmount,
		HoursSinceRain: hoursSinceRain,
		Temperature:    t.lastTemperature,
		Condition:      t.condition(night, raining),
	}
}

func (t *Telemetry) condition(night, raining bool) string {
	switch {
	case raining:
		return "rainy"
	case t.cloudCover >= 0.7:
		return "overcast"
	case t.cloudCover >= 0.4:
		return "cloudy"
	case night:
		return "clear_night"
	default:
		return "sunny"
	}
}

func dayPhase(hour int) string {
	switch {
	case IsNightHour(hour):
		return "night"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
