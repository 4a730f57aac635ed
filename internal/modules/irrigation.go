package modules

import (
	"fmt"
	"math"

	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/logging"
)

// Irrigation waters the garden. Delivered amounts ride through the same
// rainfall entry point natural rain uses, under the same clamp policy.
type Irrigation struct {
	garden           *garden.Garden
	log              *logging.SlogManager
	hazardMultiplier float64

	active    bool
	intensity int

	// baseOutput is the water delivered by one Update tick at 100%
	// intensity, in the same units as rainfall.
	baseOutput int
}

func NewIrrigation(g *garden.Garden, log *logging.SlogManager, hazardMultiplier float64) *Irrigation {
	return &Irrigation{
		garden:           g,
		log:              log,
		hazardMultiplier: hazardMultiplier,
		intensity:        50,
		baseOutput:       10,
	}
}

func (m *Irrigation) Key() string  { return KeyIrrigation }
func (m *Irrigation) Name() string { return "Irrigation System" }

func (m *Irrigation) Activate() {
	if !m.active {
		m.active = true
		m.logf("irrigation activated at %d%% intensity", m.intensity)
	}
}

func (m *Irrigation) Deactivate() {
	if m.active {
		m.active = false
		m.logf("irrigation deactivated")
	}
}

func (m *Irrigation) IsActive() bool { return m.active }

func (m *Irrigation) SetIntensity(pct int) {
	m.intensity = clampIntensity(pct)
}

func (m *Irrigation) Intensity() int { return m.intensity }

// Update delivers one tick of water while active, scaled by intensity.
func (m *Irrigation) Update() {
	if !m.active {
		return
	}
	amount := int(math.Round(float64(m.baseOutput) * float64(m.intensity) / 100))
	if amount > 0 {
		m.Deliver(amount)
	}
}

// Deliver waters the garden with a specific amount, clamped into the
// plant-driven rainfall bounds.
func (m *Irrigation) Deliver(amount int) {
	if amount <= 0 {
		return
	}
	applied, adjusted := m.garden.ClampRainfall(amount, m.hazardMultiplier)
	if adjusted {
		m.logf("irrigation request of %d adjusted to %d", amount, applied)
	}
	m.garden.ApplyRainfall(applied)
}

func (m *Irrigation) logf(format string, args ...any) {
	if m.log != nil {
		m.log.WriteLog(KeyIrrigation, fmt.Sprintf(format, args...), "info")
	}
}
