package modules

import (
	"fmt"
	"math"

	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/logging"
)

// Heating drives air temperature up toward a target. Each Update closes
// a fraction of the remaining gap proportional to intensity, so low
// intensity warms slowly and full intensity converges fast. It is a
// heater only: when the air is already at or above target it idles.
type Heating struct {
	garden *garden.Garden
	log    *logging.SlogManager

	active    bool
	intensity int
	target    int
}

const defaultHeatingTarget = 70

func NewHeating(g *garden.Garden, log *logging.SlogManager) *Heating {
	return &Heating{
		garden:    g,
		log:       log,
		intensity: 50,
		target:    defaultHeatingTarget,
	}
}

func (m *Heating) Key() string  { return KeyHeating }
func (m *Heating) Name() string { return "Heating System" }

func (m *Heating) Activate() {
	if !m.active {
		m.active = true
		m.logf("heating activated, target %d°F at %d%% intensity", m.target, m.intensity)
	}
}

func (m *Heating) Deactivate() {
	if m.active {
		m.active = false
		m.logf("heating deactivated")
	}
}

func (m *Heating) IsActive() bool { return m.active }

func (m *Heating) SetIntensity(pct int) {
	m.intensity = clampIntensity(pct)
}

func (m *Heating) Intensity() int { return m.intensity }

// SetTarget sets the temperature the module drives toward.
func (m *Heating) SetTarget(temp int) {
	m.target = temp
}

func (m *Heating) Target() int { return m.target }

// Update applies one tick of heating toward the target. Does nothing
// when the air is already at or above target.
func (m *Heating) Update() {
	if !m.active {
		return
	}
	current := m.garden.AirTemperature()
	delta := m.target - current
	if delta <= 0 {
		return
	}
	step := float64(delta) * float64(m.intensity) / 100
	move := int(math.Round(step))
	if move == 0 {
		// Always make progress while active.
		move = 1
	}
	if err := m.garden.ApplyTemperature(current + move); err != nil {
		m.logf("heating step to %d°F rejected: %v", current+move, err)
	}
}

// ApplyTemperature routes an explicit temperature command through the
// heating hardware.
func (m *Heating) ApplyTemperature(temp int) error {
	return m.garden.ApplyTemperature(temp)
}

func (m *Heating) logf(format string, args ...any) {
	if m.log != nil {
		m.log.WriteLog(KeyHeating, fmt.Sprintf(format, args...), "info")
	}
}
