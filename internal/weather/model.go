// Package weather provides the diurnal temperature model, randomized
// rainfall, and the display-only telemetry layer.
package weather

import (
	"math"
	"math/rand"
)

// Diurnal temperature band in °F. The curve bottoms out at 6AM and
// peaks at 6PM.
const (
	DiurnalMinTemp = 50.0
	DiurnalMaxTemp = 85.0
	coldestHour    = 6

	TemperatureJitter = 10

	MinRainfall = 5
	MaxRainfall = 15

	nightStartHour = 20
	nightEndHour   = 6
)

// Model generates weather values. All randomness flows through one
// injected source so tests can seed it.
type Model struct {
	rng *rand.Rand
}

func NewModel(rng *rand.Rand) *Model {
	return &Model{rng: rng}
}

// IsNightHour reports whether an hour of day falls in the night window.
func IsNightHour(hour int) bool {
	return hour >= nightStartHour || hour < nightEndHour
}

// DiurnalTemperature returns the pure sinusoid baseline for an hour of
// day, without jitter.
func DiurnalTemperature(hour int) int {
	mid := (DiurnalMinTemp + DiurnalMaxTemp) / 2
	amp := (DiurnalMaxTemp - DiurnalMinTemp) / 2
	phase := 2 * math.Pi * float64(hour-coldestHour) / 24
	return int(math.Round(mid - amp*math.Cos(phase)))
}

// JitteredTemperature returns the diurnal baseline perturbed by up to
// ±TemperatureJitter degrees.
func (m *Model) JitteredTemperature(hour int) int {
	jitter := m.rng.Intn(2*TemperatureJitter+1) - TemperatureJitter
	return DiurnalTemperature(hour) + jitter
}

// GenerateRainfall draws a rainfall amount uniformly from the fixed
// band, independent of plant needs.
func (m *Model) GenerateRainfall() int {
	return MinRainfall + m.rng.Intn(MaxRainfall-MinRainfall+1)
}

// ShouldOccur rolls an event with the given probability.
func (m *Model) ShouldOccur(probability float64) bool {
	return m.rng.Float64() < probability
}
